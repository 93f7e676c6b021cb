package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingServer struct {
	called         string
	ref            string
	id             int64
	name           string
	casesParams    ListCasesParams
	documentParams ListCaseDocumentsParams
}

func (s *recordingServer) LookupCases(w http.ResponseWriter, r *http.Request) {
	s.called = "LookupCases"
}

func (s *recordingServer) ListCases(w http.ResponseWriter, r *http.Request, params ListCasesParams) {
	s.called = "ListCases"
	s.casesParams = params
}

func (s *recordingServer) ListCaseDocuments(w http.ResponseWriter, r *http.Request, ref string, params ListCaseDocumentsParams) {
	s.called = "ListCaseDocuments"
	s.ref = ref
	s.documentParams = params
}

func (s *recordingServer) UploadFile(w http.ResponseWriter, r *http.Request) {
	s.called = "UploadFile"
}

func (s *recordingServer) DownloadFile(w http.ResponseWriter, r *http.Request, id int64) {
	s.called = "DownloadFile"
	s.id = id
}

func (s *recordingServer) ListForms(w http.ResponseWriter, r *http.Request) {
	s.called = "ListForms"
}

func (s *recordingServer) GetForm(w http.ResponseWriter, r *http.Request, name string) {
	s.called = "GetForm"
	s.name = name
}

func TestHandlerFromMux_Routes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		target string
		called string
	}{
		{http.MethodPost, "/lookups", "LookupCases"},
		{http.MethodGet, "/cases", "ListCases"},
		{http.MethodGet, "/cases/C1/documents", "ListCaseDocuments"},
		{http.MethodPost, "/files", "UploadFile"},
		{http.MethodGet, "/files/7", "DownloadFile"},
		{http.MethodGet, "/forms", "ListForms"},
		{http.MethodGet, "/forms/inspection", "GetForm"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			t.Parallel()

			var (
				server  = new(recordingServer)
				handler = HandlerFromMux(server, http.NewServeMux())
				w       = httptest.NewRecorder()
			)
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.called, server.called)
		})
	}
}

func TestHandlerFromMux_BindsParameters(t *testing.T) {
	t.Parallel()

	var (
		server  = new(recordingServer)
		handler = HandlerFromMux(server, http.NewServeMux())
	)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cases?surveyor=S07&status=OPEN&sort_by=updated&order=desc&limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "S07", FromString(server.casesParams.Surveyor))
	assert.Equal(t, "OPEN", FromString(server.casesParams.Status))
	require.NotNil(t, server.casesParams.SortBy)
	assert.Equal(t, ListCasesParamsSortByUpdated, *server.casesParams.SortBy)
	require.NotNil(t, server.casesParams.Order)
	assert.Equal(t, ListCasesParamsOrderDesc, *server.casesParams.Order)
	assert.Equal(t, 5, FromInt(server.casesParams.Limit))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cases/C42/documents?surveyor=S01", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "C42", server.ref)
	assert.Equal(t, "S01", FromString(server.documentParams.Surveyor))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/42", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), server.id)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/forms/valuation", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "valuation", server.name)
}

func TestHandlerFromMux_InvalidParameters(t *testing.T) {
	t.Parallel()

	var (
		server  = new(recordingServer)
		handler = HandlerFromMux(server, http.NewServeMux())
	)

	for _, target := range []string{"/files/abc", "/cases?limit=many"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
	assert.Empty(t, server.called)
}
