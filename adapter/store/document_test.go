package store

import (
	"time"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/casedocstest"
)

func (s *StoreTestSuite) TestListDocuments() {
	ctx, cancel := testContext()
	defer cancel()

	var (
		docs1 = gen.Documents("C000001", 3)
		docs2 = gen.Documents("C000002", 2)
		docs3 = gen.Documents("C000003", 1)
	)
	// Save out of order to check the query sorts them
	s.Require().NoError(s.adapter.SaveDocuments(ctx, docs2[1], docs1[2], docs3[0], docs1[0], docs2[0], docs1[1]))

	s.Run("No refs", func() {
		documents, err := s.adapter.ListDocuments(ctx)
		s.Require().NoError(err)
		s.Empty(documents)
	})

	s.Run("Single ref", func() {
		documents, err := s.adapter.ListDocuments(ctx, "C000002")
		s.Require().NoError(err)
		s.Equal(docs2, documents)
	})

	s.Run("Batch of refs", func() {
		documents, err := s.adapter.ListDocuments(ctx, "C000002", "C000009", "C000001")
		s.Require().NoError(err)
		s.Equal(append(append([]casedocs.Document{}, docs1...), docs2...), documents)
	})
}

func (s *StoreTestSuite) TestSaveDocuments_Upsert() {
	ctx, cancel := testContext()
	defer cancel()

	aDocument := gen.Document(
		casedocstest.WithDocumentCaseRef("C000001"),
		casedocstest.WithDocumentCreated(time.Now().UTC().Truncate(time.Millisecond)),
	)
	s.Require().NoError(s.adapter.SaveDocuments(ctx, aDocument))

	aDocument.Title = "  Revised   survey report "
	s.Require().NoError(s.adapter.SaveDocuments(ctx, aDocument))

	documents, err := s.adapter.ListDocuments(ctx, "C000001")
	s.Require().NoError(err)
	s.Require().Len(documents, 1)
	s.Equal(aDocument.ID, documents[0].ID)
	s.Equal("Revised survey report", documents[0].Title)
}
