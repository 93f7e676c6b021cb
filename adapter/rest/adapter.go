package rest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/pkg/authz"
)

type CaseDocs interface {
	Lookup(ctx context.Context, principal authz.Principal, req casedocs.LookupRequest) (*casedocs.LookupResult, error)
	CaseDocuments(ctx context.Context, principal authz.Principal, ref casedocs.CaseRef) ([]casedocs.Document, error)
	ListSurveyorCases(ctx context.Context, principal authz.Principal, filter casedocs.CaseFilter, params casedocs.SortParams) ([]*casedocs.Case, error)
	CreateDataFile(ctx context.Context, principal authz.Principal, fileName string, contents io.Reader) (*casedocs.DataFile, error)
	OpenDataFile(ctx context.Context, id *casedocs.DataFileID) (*casedocs.DataFile, io.ReadSeekCloser, error)
}

type Forms interface {
	ListForms(ctx context.Context) ([]string, error)
	FormMetadata(ctx context.Context, name string) (*casedocs.FormMetadata, error)
}

type Adapter struct {
	caseDocs CaseDocs
	forms    Forms
	logger   *zap.Logger
}

type Option func(*Adapter)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(caseDocs CaseDocs, forms Forms, options ...Option) *Adapter {
	a := &Adapter{
		caseDocs: caseDocs,
		forms:    forms,
		logger:   zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	return a
}

const (
	defaultTimeout = 3 * time.Second
	uploadTimeout  = 60 * time.Second

	SurveyorHeader = "X-Surveyor-Code"
)

// principalFromRequest identifies the surveyor by header, falling back to the
// surveyor query parameter used by older clients. Authentication happens in
// front of this service.
func (a *Adapter) principalFromRequest(r *http.Request, fallback *string) authz.Principal {
	code := strings.TrimSpace(r.Header.Get(SurveyorHeader))
	if code == "" && fallback != nil {
		code = strings.TrimSpace(*fallback)
	}
	return authz.NewSurveyor(code, "")
}
