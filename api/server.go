package api

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Look up case refs for a surveyor
	// (POST /lookups)
	LookupCases(w http.ResponseWriter, r *http.Request)
	// List cases assigned to a surveyor
	// (GET /cases)
	ListCases(w http.ResponseWriter, r *http.Request, params ListCasesParams)
	// List documents of a single case
	// (GET /cases/{ref}/documents)
	ListCaseDocuments(w http.ResponseWriter, r *http.Request, ref string, params ListCaseDocumentsParams)
	// Upload a data file
	// (POST /files)
	UploadFile(w http.ResponseWriter, r *http.Request)
	// Download a data file
	// (GET /files/{id})
	DownloadFile(w http.ResponseWriter, r *http.Request, id int64)
	// List form templates
	// (GET /forms)
	ListForms(w http.ResponseWriter, r *http.Request)
	// Get form metadata
	// (GET /forms/{name})
	GetForm(w http.ResponseWriter, r *http.Request, name string)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// LookupCases operation middleware
func (siw *ServerInterfaceWrapper) LookupCases(w http.ResponseWriter, r *http.Request) {
	siw.Handler.LookupCases(w, r)
}

// ListCases operation middleware
func (siw *ServerInterfaceWrapper) ListCases(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		params ListCasesParams
	)

	err = runtime.BindQueryParameter("form", true, false, "surveyor", r.URL.Query(), &params.Surveyor)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "surveyor", Err: err})
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "status", r.URL.Query(), &params.Status)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "status", Err: err})
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "sort_by", r.URL.Query(), &params.SortBy)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "sort_by", Err: err})
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "order", r.URL.Query(), &params.Order)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "order", Err: err})
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	siw.Handler.ListCases(w, r, params)
}

// ListCaseDocuments operation middleware
func (siw *ServerInterfaceWrapper) ListCaseDocuments(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		ref    string
		params ListCaseDocumentsParams
	)

	err = runtime.BindStyledParameterWithOptions("simple", "ref", r.PathValue("ref"), &ref, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "ref", Err: err})
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "surveyor", r.URL.Query(), &params.Surveyor)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "surveyor", Err: err})
		return
	}

	siw.Handler.ListCaseDocuments(w, r, ref, params)
}

// UploadFile operation middleware
func (siw *ServerInterfaceWrapper) UploadFile(w http.ResponseWriter, r *http.Request) {
	siw.Handler.UploadFile(w, r)
}

// DownloadFile operation middleware
func (siw *ServerInterfaceWrapper) DownloadFile(w http.ResponseWriter, r *http.Request) {
	var (
		err error
		id  int64
	)

	err = runtime.BindStyledParameterWithOptions("simple", "id", r.PathValue("id"), &id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	siw.Handler.DownloadFile(w, r, id)
}

// ListForms operation middleware
func (siw *ServerInterfaceWrapper) ListForms(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListForms(w, r)
}

// GetForm operation middleware
func (siw *ServerInterfaceWrapper) GetForm(w http.ResponseWriter, r *http.Request) {
	var (
		err  error
		name string
	)

	err = runtime.BindStyledParameterWithOptions("simple", "name", r.PathValue("name"), &name, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "name", Err: err})
		return
	}

	siw.Handler.GetForm(w, r, name)
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ServeMux is the subset of *http.ServeMux the router needs.
type ServeMux interface {
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, m ServeMux) http.Handler {
	return HandlerWithOptions(si, m, func(w http.ResponseWriter, r *http.Request, err error) {
		http.Error(w, err.Error(), http.StatusBadRequest)
	})
}

// HandlerWithOptions creates http.Handler with routing and a custom parameter error handler.
func HandlerWithOptions(si ServerInterface, m ServeMux, errorHandler func(w http.ResponseWriter, r *http.Request, err error)) http.Handler {
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: errorHandler,
	}

	m.HandleFunc("POST /lookups", wrapper.LookupCases)
	m.HandleFunc("GET /cases", wrapper.ListCases)
	m.HandleFunc("GET /cases/{ref}/documents", wrapper.ListCaseDocuments)
	m.HandleFunc("POST /files", wrapper.UploadFile)
	m.HandleFunc("GET /files/{id}", wrapper.DownloadFile)
	m.HandleFunc("GET /forms", wrapper.ListForms)
	m.HandleFunc("GET /forms/{name}", wrapper.GetForm)

	return m
}
