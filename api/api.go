package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// LookupRequest defines model for LookupRequest.
type LookupRequest struct {
	IncludeDocuments bool     `json:"include_documents"`
	Refs             []string `json:"refs"`
}

// CaseResponseOutcome defines model for CaseResponse.Outcome.
type CaseResponseOutcome string

const (
	CaseResponseOutcomeD CaseResponseOutcome = "D"
	CaseResponseOutcomeR CaseResponseOutcome = "R"
)

// CaseResponse defines model for CaseResponse.
type CaseResponse struct {
	Outcome CaseResponseOutcome `json:"outcome"`
	Owner   *string             `json:"owner,omitempty"`
	Ref     string              `json:"ref"`
}

// LookupResult defines model for LookupResult.
type LookupResult struct {
	Authorized  []string              `json:"authorized"`
	Documents   map[string][]Document `json:"documents,omitempty"`
	Responses   []CaseResponse        `json:"responses"`
	Tokens      []string              `json:"tokens"`
	Unavailable bool                  `json:"unavailable"`
}

// Document defines model for Document.
type Document struct {
	CaseRef   string             `json:"case_ref"`
	CreatedAt time.Time          `json:"created_at"`
	FileName  string             `json:"file_name"`
	Id        openapi_types.UUID `json:"id"`
	Title     string             `json:"title"`
}

// Documents defines model for Documents.
type Documents struct {
	Documents []Document `json:"documents"`
}

// Case defines model for Case.
type Case struct {
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	Ref          string    `json:"ref"`
	Status       string    `json:"status"`
	SurveyorCode string    `json:"surveyor_code"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Cases defines model for Cases.
type Cases struct {
	Cases []Case `json:"cases"`
}

// DataFile defines model for DataFile.
type DataFile struct {
	AuthorCode  string    `json:"author_code"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	FileName    string    `json:"file_name"`
	Hash        string    `json:"hash"`
	Id          int64     `json:"id"`
	Size        int64     `json:"size"`
}

// FormField defines model for FormField.
type FormField struct {
	Label    string `json:"label,omitempty"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Type     string `json:"type"`
}

// Form defines model for Form.
type Form struct {
	Fields  []FormField `json:"fields"`
	Name    string      `json:"name"`
	Title   string      `json:"title,omitempty"`
	Version int         `json:"version,omitempty"`
}

// Forms defines model for Forms.
type Forms struct {
	Forms []string `json:"forms"`
}

// Error defines model for Error.
type Error struct {
	Message string `json:"message"`
}

// ListCasesParamsSortBy defines parameters for ListCases.
type ListCasesParamsSortBy string

const (
	ListCasesParamsSortByCreated ListCasesParamsSortBy = "created"
	ListCasesParamsSortByRef     ListCasesParamsSortBy = "ref"
	ListCasesParamsSortByUpdated ListCasesParamsSortBy = "updated"
)

// ListCasesParamsOrder defines parameters for ListCases.
type ListCasesParamsOrder string

const (
	ListCasesParamsOrderAsc  ListCasesParamsOrder = "asc"
	ListCasesParamsOrderDesc ListCasesParamsOrder = "desc"
)

// ListCasesParams defines parameters for ListCases.
type ListCasesParams struct {
	Surveyor *string                `form:"surveyor,omitempty" json:"surveyor,omitempty"`
	Status   *string                `form:"status,omitempty" json:"status,omitempty"`
	SortBy   *ListCasesParamsSortBy `form:"sort_by,omitempty" json:"sort_by,omitempty"`
	Order    *ListCasesParamsOrder  `form:"order,omitempty" json:"order,omitempty"`
	Limit    *int                   `form:"limit,omitempty" json:"limit,omitempty"`
}

// ListCaseDocumentsParams defines parameters for ListCaseDocuments.
type ListCaseDocumentsParams struct {
	Surveyor *string `form:"surveyor,omitempty" json:"surveyor,omitempty"`
}

func String(v string) *string {
	return &v
}

func FromString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func FromInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
