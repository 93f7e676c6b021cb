package store

import (
	"context"
	"errors"
	"time"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/casedocstest"
	"github.com/RichardKnop/casedocs/pkg/authz"
)

var (
	testNow      = time.Now().UTC()
	gen          = casedocstest.New(testNow.UnixNano(), testNow)
	testSurveyor = authz.NewSurveyor("S01", "Test Surveyor")
	errRollback  = errors.New("rollback")
)

func (s *StoreTestSuite) TestFindCase() {
	ctx, cancel := testContext()
	defer cancel()

	aCase := gen.Case(casedocstest.WithCaseSurveyor("S01"))
	s.Require().NoError(s.adapter.SaveCases(ctx, aCase), "error saving case")

	s.Run("Find existing case", func() {
		savedCase, err := s.adapter.FindCase(ctx, aCase.Ref)
		s.Require().NoError(err)
		s.Equal(aCase, savedCase)
	})

	s.Run("Find missing case", func() {
		_, err := s.adapter.FindCase(ctx, "does-not-exist")
		s.Require().ErrorIs(err, casedocs.ErrNotFound)
	})
}

func (s *StoreTestSuite) TestSaveCases_Upsert() {
	ctx, cancel := testContext()
	defer cancel()

	var (
		now   = time.Now().UTC().Truncate(time.Millisecond)
		case1 = gen.Case(
			casedocstest.WithCaseRef("C000001"),
			casedocstest.WithCaseStatus(casedocs.CaseStatusOpen),
			casedocstest.WithCaseCreated(now),
			casedocstest.WithCaseUpdated(now),
		)
		case2 = gen.Case(
			casedocstest.WithCaseRef("C000002"),
			casedocstest.WithCaseStatus(casedocs.CaseStatusOpen),
			casedocstest.WithCaseCreated(now),
			casedocstest.WithCaseUpdated(now),
		)
	)

	s.Require().NoError(s.adapter.SaveCases(ctx, case1, case2), "error saving cases")

	// Reassign the first case and close the second
	case1.SurveyorCode = "S99"
	case1.Updated = now.Add(time.Minute)
	case2.Status = casedocs.CaseStatusClosed
	case2.Updated = now.Add(2 * time.Minute)

	s.Require().NoError(s.adapter.SaveCases(ctx, case1, case2, case2), "error upserting cases")

	savedCase1, err := s.adapter.FindCase(ctx, case1.Ref)
	s.Require().NoError(err)
	s.Equal(case1, savedCase1)
	s.Equal(casedocs.SurveyorCode("S99"), savedCase1.SurveyorCode)
	s.Equal(now, savedCase1.Created)

	savedCase2, err := s.adapter.FindCase(ctx, case2.Ref)
	s.Require().NoError(err)
	s.Equal(casedocs.CaseStatusClosed, savedCase2.Status)
	s.Greater(savedCase2.Updated, savedCase1.Updated)
}

func (s *StoreTestSuite) TestFindCases() {
	ctx, cancel := testContext()
	defer cancel()

	var (
		case1 = gen.Case(casedocstest.WithCaseRef("C000001"))
		case2 = gen.Case(casedocstest.WithCaseRef("C000002"))
		case3 = gen.Case(casedocstest.WithCaseRef("C000003"))
	)
	s.Require().NoError(s.adapter.SaveCases(ctx, case1, case2, case3), "error saving cases")

	s.Run("No refs", func() {
		cases, err := s.adapter.FindCases(ctx)
		s.Require().NoError(err)
		s.Empty(cases)
	})

	s.Run("Subset with missing refs", func() {
		cases, err := s.adapter.FindCases(ctx, case3.Ref, "C999999", case1.Ref)
		s.Require().NoError(err)
		s.ElementsMatch([]*casedocs.Case{case1, case3}, cases)
	})

	s.Run("More refs than fit in one query", func() {
		refs := make([]casedocs.CaseRef, 0, maxParamsPerQuery+10)
		for i := range maxParamsPerQuery + 8 {
			refs = append(refs, casedocs.CaseRef(time.Duration(i).String()))
		}
		refs = append(refs, case2.Ref, case1.Ref)

		cases, err := s.adapter.FindCases(ctx, refs...)
		s.Require().NoError(err)
		s.ElementsMatch([]*casedocs.Case{case1, case2}, cases)
	})
}

func (s *StoreTestSuite) TestListCases() {
	ctx, cancel := testContext()
	defer cancel()

	cases, err := s.adapter.ListCases(ctx, casedocs.CaseFilter{}, authz.NilPartial, casedocs.SortParams{})
	s.Require().NoError(err)
	s.Empty(cases)

	var (
		now   = time.Now().UTC().Truncate(time.Millisecond)
		case1 = gen.Case(
			casedocstest.WithCaseRef("C000001"),
			casedocstest.WithCaseSurveyor("S01"),
			casedocstest.WithCaseStatus(casedocs.CaseStatusOpen),
			casedocstest.WithCaseUpdated(now.Add(-time.Hour)),
		)
		case2 = gen.Case(
			casedocstest.WithCaseRef("C000002"),
			casedocstest.WithCaseSurveyor("S01"),
			casedocstest.WithCaseStatus(casedocs.CaseStatusClosed),
			casedocstest.WithCaseUpdated(now),
		)
		case3 = gen.Case(
			casedocstest.WithCaseRef("C000003"),
			casedocstest.WithCaseSurveyor("S02"),
			casedocstest.WithCaseStatus(casedocs.CaseStatusOpen),
			casedocstest.WithCaseUpdated(now),
		)
	)
	s.Require().NoError(s.adapter.SaveCases(ctx, case1, case2, case3), "error saving cases")

	s.Run("List all cases, no filter", func() {
		cases, err := s.adapter.ListCases(ctx, casedocs.CaseFilter{}, authz.NilPartial, casedocs.SortParams{})
		s.Require().NoError(err)
		s.ElementsMatch([]*casedocs.Case{case1, case2, case3}, cases)
	})

	s.Run("List with sorting and limit", func() {
		cases, err := s.adapter.ListCases(ctx, casedocs.CaseFilter{}, authz.NilPartial, casedocs.SortParams{
			By:    `c."ref"`,
			Order: casedocs.SortOrderDesc,
			Limit: 2,
		})
		s.Require().NoError(err)
		s.Equal([]*casedocs.Case{case3, case2}, cases)
	})

	s.Run("Filter by status", func() {
		cases, err := s.adapter.ListCases(ctx, casedocs.CaseFilter{
			Status: casedocs.CaseStatusClosed,
		}, authz.NilPartial, casedocs.SortParams{})
		s.Require().NoError(err)
		s.Equal([]*casedocs.Case{case2}, cases)
	})

	s.Run("Filter by updated before", func() {
		cases, err := s.adapter.ListCases(ctx, casedocs.CaseFilter{
			UpdatedBefore: now.Add(-time.Minute),
		}, authz.NilPartial, casedocs.SortParams{})
		s.Require().NoError(err)
		s.Equal([]*casedocs.Case{case1}, cases)
	})

	s.Run("List with a surveyor partial", func() {
		cases, err := s.adapter.ListCases(ctx, casedocs.CaseFilter{
			Status: casedocs.CaseStatusOpen,
		}, authz.OwnedBy(testSurveyor), casedocs.SortParams{})
		s.Require().NoError(err)
		s.Equal([]*casedocs.Case{case1}, cases)
	})
}

func (s *StoreTestSuite) TestTransactional_Rollback() {
	ctx, cancel := testContext()
	defer cancel()

	aCase := gen.Case()
	err := s.adapter.Transactional(ctx, nil, func(ctx context.Context) error {
		if err := s.adapter.SaveCases(ctx, aCase); err != nil {
			return err
		}
		return errRollback
	})
	s.Require().ErrorIs(err, errRollback)

	_, err = s.adapter.FindCase(ctx, aCase.Ref)
	s.Require().ErrorIs(err, casedocs.ErrNotFound)
}

func (s *StoreTestSuite) TestSaveSurveyor() {
	ctx, cancel := testContext()
	defer cancel()

	s.Require().NoError(s.adapter.SaveSurveyor(ctx, testSurveyor))
	// Saving again updates the name in place
	s.Require().NoError(s.adapter.SaveSurveyor(ctx, authz.NewSurveyor("S01", "Renamed Surveyor")))

	var name string
	s.Require().NoError(s.db.QueryRowContext(ctx, s.adapter.rebind(`select "name" from "surveyor" where "code" = ?`), "S01").Scan(&name))
	s.Equal("Renamed Surveyor", name)
}
