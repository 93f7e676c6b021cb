package casedocs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RichardKnop/casedocs/pkg/authz"
)

// CaseRef is the system reference of a case record.
type CaseRef string

type SurveyorCode string

type CaseStatus string

const (
	CaseStatusOpen   CaseStatus = "OPEN"
	CaseStatusClosed CaseStatus = "CLOSED"
)

type Case struct {
	Ref          CaseRef
	SurveyorCode SurveyorCode
	Address      string
	Status       CaseStatus
	Created      time.Time
	Updated      time.Time
}

type CaseFilter struct {
	Status        CaseStatus
	UpdatedBefore time.Time
}

// Outcome of looking up a single case for a surveyor.
type Outcome string

const (
	OutcomeAuthorized Outcome = "A"
	OutcomeMissing    Outcome = "D"
	OutcomeRestricted Outcome = "R"
)

type CaseResponse struct {
	Ref     CaseRef
	Outcome Outcome
	// Owner is the surveyor the case is assigned to, set for restricted cases only.
	Owner SurveyorCode
}

// String renders the response token understood by existing clients,
// e.g. "C123:D" or "C123:R:S07".
func (r CaseResponse) String() string {
	if r.Outcome == OutcomeRestricted {
		return fmt.Sprintf("%s:%s:%s", r.Ref, r.Outcome, r.Owner)
	}
	return fmt.Sprintf("%s:%s", r.Ref, r.Outcome)
}

type LookupRequest struct {
	Refs             []CaseRef
	IncludeDocuments bool
}

type LookupResult struct {
	// Responses holds missing and restricted cases in request order.
	Responses []CaseResponse
	// Authorized holds the cases the surveyor may see in request order.
	Authorized []CaseRef
	// Documents is nil unless documents were requested, in which case every
	// authorized ref has an entry.
	Documents map[CaseRef][]Document
	// Unavailable is set when the case store could not be reached. The rest
	// of the result is empty.
	Unavailable bool
}

// Tokens renders Responses as legacy response strings.
func (r *LookupResult) Tokens() []string {
	tokens := make([]string, 0, len(r.Responses))
	for _, aResponse := range r.Responses {
		tokens = append(tokens, aResponse.String())
	}
	return tokens
}

// NormalizeRefs trims refs, drops empty ones and collapses duplicates to
// their first occurrence.
func NormalizeRefs(refs []CaseRef) []CaseRef {
	var (
		normalized = make([]CaseRef, 0, len(refs))
		seen       = make(map[CaseRef]struct{}, len(refs))
	)
	for _, ref := range refs {
		ref = CaseRef(strings.TrimSpace(string(ref)))
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		normalized = append(normalized, ref)
	}
	return normalized
}

// Lookup resolves case refs for the principal's surveyor code. Missing cases
// are reported as D, cases assigned to someone else as R with the owner, and
// documents are attached to authorized cases when requested.
func (s *Service) Lookup(ctx context.Context, principal authz.Principal, req LookupRequest) (*LookupResult, error) {
	surveyor := SurveyorCode(strings.TrimSpace(principal.Code()))
	if surveyor == "" {
		return nil, fmt.Errorf("%w: surveyor code is required", ErrInvalidArgument)
	}

	var (
		refs        = NormalizeRefs(req.Refs)
		result      = new(LookupResult)
		casesLoaded bool
	)

	if err := s.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		cases, err := s.findCases(ctx, refs)
		if err != nil {
			return fmt.Errorf("find cases: %w", err)
		}
		casesLoaded = true

		for _, ref := range refs {
			aCase, ok := cases[ref]
			switch {
			case !ok:
				result.Responses = append(result.Responses, CaseResponse{Ref: ref, Outcome: OutcomeMissing})
			case aCase.SurveyorCode != surveyor:
				result.Responses = append(result.Responses, CaseResponse{
					Ref:     ref,
					Outcome: OutcomeRestricted,
					Owner:   aCase.SurveyorCode,
				})
			default:
				result.Authorized = append(result.Authorized, ref)
			}
		}

		if !req.IncludeDocuments {
			return nil
		}

		result.Documents, err = s.documentsFor(ctx, result.Authorized)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}

		return nil
	}); err != nil {
		if errors.Is(err, ErrUnavailable) && !casesLoaded {
			// Callers still owe their client a response, so report the outage instead of failing.
			s.logger.Sugar().With(
				"surveyor", surveyor,
				"refs", len(refs),
				"error", err,
			).Warn("cannot reach case store")
			return &LookupResult{Unavailable: true}, nil
		}
		return nil, err
	}

	s.logger.Sugar().With(
		"surveyor", surveyor,
		"strategy", s.strategy,
		"authorized", len(result.Authorized),
		"rejected", len(result.Responses),
	).Debug("case lookup complete")

	return result, nil
}

func (s *Service) findCases(ctx context.Context, refs []CaseRef) (map[CaseRef]*Case, error) {
	found := make(map[CaseRef]*Case, len(refs))
	if len(refs) == 0 {
		return found, nil
	}

	if s.strategy == StrategyPerCase {
		for _, ref := range refs {
			aCase, err := s.store.FindCase(ctx, ref)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, err
			}
			found[ref] = aCase
		}
		return found, nil
	}

	cases, err := s.store.FindCases(ctx, refs...)
	if err != nil {
		return nil, err
	}
	for _, aCase := range cases {
		found[aCase.Ref] = aCase
	}
	return found, nil
}

func (s *Service) documentsFor(ctx context.Context, refs []CaseRef) (map[CaseRef][]Document, error) {
	if s.strategy == StrategyPerCase {
		grouped := make(map[CaseRef][]Document, len(refs))
		for _, ref := range refs {
			documents, err := s.documents.ListDocuments(ctx, ref)
			if err != nil {
				return nil, err
			}
			grouped[ref] = PartitionDocuments([]CaseRef{ref}, documents)[ref]
		}
		return grouped, nil
	}

	var documents []Document
	for start := 0; start < len(refs); start += s.documentBatchSize {
		end := min(start+s.documentBatchSize, len(refs))
		batch, err := s.documents.ListDocuments(ctx, refs[start:end]...)
		if err != nil {
			return nil, err
		}
		documents = append(documents, batch...)
	}

	return PartitionDocuments(refs, documents), nil
}

// CaseDocuments returns the documents of a single case the principal is assigned to.
func (s *Service) CaseDocuments(ctx context.Context, principal authz.Principal, ref CaseRef) ([]Document, error) {
	result, err := s.Lookup(ctx, principal, LookupRequest{
		Refs:             []CaseRef{ref},
		IncludeDocuments: true,
	})
	if err != nil {
		return nil, err
	}
	if result.Unavailable {
		return nil, ErrUnavailable
	}
	if len(result.Authorized) == 0 && len(result.Responses) == 0 {
		return nil, fmt.Errorf("%w: case ref is required", ErrInvalidArgument)
	}
	for _, aResponse := range result.Responses {
		switch aResponse.Outcome {
		case OutcomeMissing:
			return nil, ErrNotFound
		case OutcomeRestricted:
			return nil, ErrForbidden
		}
	}
	return result.Documents[result.Authorized[0]], nil
}

var sortableCaseColumns = []string{`c."ref"`, `c."created"`, `c."updated"`}

// ListSurveyorCases lists the cases assigned to the principal.
func (s *Service) ListSurveyorCases(ctx context.Context, principal authz.Principal, filter CaseFilter, params SortParams) ([]*Case, error) {
	if strings.TrimSpace(principal.Code()) == "" {
		return nil, fmt.Errorf("%w: surveyor code is required", ErrInvalidArgument)
	}
	if !params.Valid(sortableCaseColumns) {
		return nil, fmt.Errorf("%w: invalid sort params", ErrInvalidArgument)
	}
	if params.Empty() {
		params = SortParams{By: `c."ref"`, Order: SortOrderAsc}
	}

	var cases []*Case
	if err := s.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		var err error
		cases, err = s.store.ListCases(ctx, filter, authz.OwnedBy(principal), params)
		return err
	}); err != nil {
		return nil, err
	}
	return cases, nil
}

// ImportCases upserts case records and their documents in one transaction.
func (s *Service) ImportCases(ctx context.Context, cases []*Case, documents []Document) error {
	now := s.now()
	for _, aCase := range cases {
		if aCase.Ref = CaseRef(strings.TrimSpace(string(aCase.Ref))); aCase.Ref == "" {
			return fmt.Errorf("%w: case ref is required", ErrInvalidArgument)
		}
		aCase.SurveyorCode = SurveyorCode(strings.TrimSpace(string(aCase.SurveyorCode)))
		if aCase.Status == "" {
			aCase.Status = CaseStatusOpen
		}
		if aCase.Created.IsZero() {
			aCase.Created = now
		}
		aCase.Updated = now
	}
	for i := range documents {
		if documents[i].ID.IsNil() {
			documents[i].ID = NewDocumentID()
		}
		if documents[i].Created.IsZero() {
			documents[i].Created = now
		}
	}

	if err := s.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		if err := s.store.SaveCases(ctx, cases...); err != nil {
			return fmt.Errorf("save cases: %w", err)
		}
		if err := s.documents.SaveDocuments(ctx, documents...); err != nil {
			return fmt.Errorf("save documents: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	// Lookups running during the transaction may have cached the old rows.
	cache, ok := s.documents.(DocumentCache)
	if !ok || len(documents) == 0 {
		return nil
	}
	refs := make([]CaseRef, 0, len(documents))
	for _, aDocument := range documents {
		refs = append(refs, aDocument.CaseRef)
	}
	if err := cache.EvictDocuments(ctx, NormalizeRefs(refs)...); err != nil {
		return fmt.Errorf("evict cached documents: %w", err)
	}
	return nil
}
