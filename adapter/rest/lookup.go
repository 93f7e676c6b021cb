package rest

import (
	"context"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/api"
)

// Look up case refs for a surveyor
// (POST /lookups)
func (a *Adapter) LookupCases(w http.ResponseWriter, r *http.Request) {
	var (
		ctx, cancel = context.WithTimeout(r.Context(), defaultTimeout)
		principal   = a.principalFromRequest(r, nil)
	)
	defer cancel()

	apiRequest := api.LookupRequest{}
	if err := readRequestJSON(r, &apiRequest); err != nil {
		renderJSONError(w, http.StatusBadRequest, err)
		return
	}

	refs := make([]casedocs.CaseRef, 0, len(apiRequest.Refs))
	for _, ref := range apiRequest.Refs {
		refs = append(refs, casedocs.CaseRef(ref))
	}

	result, err := a.caseDocs.Lookup(ctx, principal, casedocs.LookupRequest{
		Refs:             refs,
		IncludeDocuments: apiRequest.IncludeDocuments,
	})
	if err != nil {
		a.renderServiceError(w, err, "error looking up cases")
		return
	}

	if result.Unavailable {
		renderJSONStatus(w, http.StatusServiceUnavailable, mapLookupResult(result))
		return
	}

	renderJSON(w, mapLookupResult(result))
}

func mapLookupResult(result *casedocs.LookupResult) api.LookupResult {
	apiResult := api.LookupResult{
		Authorized:  make([]string, 0, len(result.Authorized)),
		Responses:   make([]api.CaseResponse, 0, len(result.Responses)),
		Tokens:      result.Tokens(),
		Unavailable: result.Unavailable,
	}

	for _, ref := range result.Authorized {
		apiResult.Authorized = append(apiResult.Authorized, string(ref))
	}

	for _, aResponse := range result.Responses {
		apiResponse := api.CaseResponse{
			Ref:     string(aResponse.Ref),
			Outcome: api.CaseResponseOutcome(aResponse.Outcome),
		}
		if aResponse.Owner != "" {
			apiResponse.Owner = api.String(string(aResponse.Owner))
		}
		apiResult.Responses = append(apiResult.Responses, apiResponse)
	}

	if result.Documents != nil {
		apiResult.Documents = make(map[string][]api.Document, len(result.Documents))
		for ref, documents := range result.Documents {
			apiResult.Documents[string(ref)] = mapDocuments(documents).Documents
		}
	}

	return apiResult
}

func mapDocument(document casedocs.Document) api.Document {
	return api.Document{
		Id:        openapi_types.UUID(document.ID.UUID),
		CaseRef:   string(document.CaseRef),
		Title:     document.Title,
		FileName:  document.FileName,
		CreatedAt: document.Created,
	}
}

func mapDocuments(documents []casedocs.Document) api.Documents {
	apiResponse := api.Documents{
		Documents: make([]api.Document, 0, len(documents)),
	}
	for _, doc := range documents {
		apiResponse.Documents = append(apiResponse.Documents, mapDocument(doc))
	}
	return apiResponse
}
