package rest

import (
	"context"
	"net/http"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/api"
)

var sortColumns = map[api.ListCasesParamsSortBy]string{
	api.ListCasesParamsSortByRef:     `c."ref"`,
	api.ListCasesParamsSortByCreated: `c."created"`,
	api.ListCasesParamsSortByUpdated: `c."updated"`,
}

// List cases assigned to a surveyor
// (GET /cases)
func (a *Adapter) ListCases(w http.ResponseWriter, r *http.Request, params api.ListCasesParams) {
	var (
		ctx, cancel = context.WithTimeout(r.Context(), defaultTimeout)
		principal   = a.principalFromRequest(r, params.Surveyor)
	)
	defer cancel()

	sortParams := casedocs.SortParams{Limit: api.FromInt(params.Limit)}
	if params.SortBy != nil {
		column, ok := sortColumns[*params.SortBy]
		if !ok {
			renderJSONError(w, http.StatusBadRequest, errInvalidSortBy)
			return
		}
		sortParams.By = column
		sortParams.Order = casedocs.SortOrderAsc
	}
	if params.Order != nil {
		switch *params.Order {
		case api.ListCasesParamsOrderAsc:
			sortParams.Order = casedocs.SortOrderAsc
		case api.ListCasesParamsOrderDesc:
			sortParams.Order = casedocs.SortOrderDesc
		default:
			renderJSONError(w, http.StatusBadRequest, errInvalidOrder)
			return
		}
		if sortParams.By == "" {
			sortParams.By = sortColumns[api.ListCasesParamsSortByRef]
		}
	}

	if principal.Code() == "" {
		renderJSONError(w, http.StatusBadRequest, errMissingSurveyor)
		return
	}

	cases, err := a.caseDocs.ListSurveyorCases(ctx, principal, casedocs.CaseFilter{
		Status: casedocs.CaseStatus(api.FromString(params.Status)),
	}, sortParams)
	if err != nil {
		a.renderServiceError(w, err, "error listing cases")
		return
	}

	renderJSON(w, mapCases(cases))
}

// List documents of a single case
// (GET /cases/{ref}/documents)
func (a *Adapter) ListCaseDocuments(w http.ResponseWriter, r *http.Request, ref string, params api.ListCaseDocumentsParams) {
	var (
		ctx, cancel = context.WithTimeout(r.Context(), defaultTimeout)
		principal   = a.principalFromRequest(r, params.Surveyor)
	)
	defer cancel()

	documents, err := a.caseDocs.CaseDocuments(ctx, principal, casedocs.CaseRef(ref))
	if err != nil {
		a.renderServiceError(w, err, "error listing case documents")
		return
	}

	renderJSON(w, mapDocuments(documents))
}

func mapCase(aCase *casedocs.Case) api.Case {
	return api.Case{
		Ref:          string(aCase.Ref),
		SurveyorCode: string(aCase.SurveyorCode),
		Address:      aCase.Address,
		Status:       string(aCase.Status),
		CreatedAt:    aCase.Created,
		UpdatedAt:    aCase.Updated,
	}
}

func mapCases(cases []*casedocs.Case) api.Cases {
	apiResponse := api.Cases{
		Cases: make([]api.Case, 0, len(cases)),
	}
	for _, aCase := range cases {
		apiResponse.Cases = append(apiResponse.Cases, mapCase(aCase))
	}
	return apiResponse
}
