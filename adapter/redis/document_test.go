package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/RichardKnop/casedocs"
)

type fakeIndex struct {
	mu        sync.Mutex
	documents map[casedocs.CaseRef][]casedocs.Document
	calls     [][]casedocs.CaseRef
	err       error

	// With deferred set, saved documents stay invisible until commit.
	deferred bool
	pending  []casedocs.Document
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{documents: map[casedocs.CaseRef][]casedocs.Document{}}
}

func (f *fakeIndex) SaveDocuments(ctx context.Context, documents ...casedocs.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deferred {
		f.pending = append(f.pending, documents...)
		return nil
	}
	for _, aDocument := range documents {
		f.documents[aDocument.CaseRef] = append(f.documents[aDocument.CaseRef], aDocument)
	}
	return nil
}

func (f *fakeIndex) commit() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, aDocument := range f.pending {
		f.documents[aDocument.CaseRef] = append(f.documents[aDocument.CaseRef], aDocument)
	}
	f.pending = nil
}

func (f *fakeIndex) ListDocuments(ctx context.Context, refs ...casedocs.CaseRef) ([]casedocs.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, refs)
	if f.err != nil {
		return nil, f.err
	}

	var documents []casedocs.Document
	for _, ref := range refs {
		documents = append(documents, f.documents[ref]...)
	}
	return documents, nil
}

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func testDocument(ref casedocs.CaseRef, title string) casedocs.Document {
	return casedocs.Document{
		ID:       casedocs.NewDocumentID(),
		CaseRef:  ref,
		Title:    title,
		FileName: title + ".pdf",
		Created:  testNow,
	}
}

func (s *RedisTestSuite) TestListDocuments_CachesResults() {
	ctx, cancel := testContext()
	defer cancel()

	var (
		doc1 = testDocument("C1", "plan")
		doc2 = testDocument("C1", "photos")
		doc3 = testDocument("C2", "report")
	)
	s.Require().NoError(s.next.SaveDocuments(ctx, doc1, doc2, doc3))

	documents, err := s.adapter.ListDocuments(ctx, "C1", "C2", "C3")
	s.Require().NoError(err)
	s.ElementsMatch([]casedocs.Document{doc1, doc2, doc3}, documents)
	s.Equal([][]casedocs.CaseRef{{"C1", "C2", "C3"}}, s.next.calls)

	// Every ref is cached now, including C3 which has no documents.
	documents, err = s.adapter.ListDocuments(ctx, "C1", "C2", "C3")
	s.Require().NoError(err)
	s.ElementsMatch([]casedocs.Document{doc1, doc2, doc3}, documents)
	s.Len(s.next.calls, 1)

	ttl, err := s.client.TTL(ctx, "test:docs:C1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisTestSuite) TestListDocuments_LoadsOnlyMisses() {
	ctx, cancel := testContext()
	defer cancel()

	var (
		doc1 = testDocument("C1", "plan")
		doc2 = testDocument("C2", "report")
	)
	s.Require().NoError(s.next.SaveDocuments(ctx, doc1, doc2))

	_, err := s.adapter.ListDocuments(ctx, "C1")
	s.Require().NoError(err)

	documents, err := s.adapter.ListDocuments(ctx, "C1", "C2")
	s.Require().NoError(err)
	s.Equal([]casedocs.Document{doc1, doc2}, documents)
	s.Equal([][]casedocs.CaseRef{{"C1"}, {"C2"}}, s.next.calls)
}

func (s *RedisTestSuite) TestListDocuments_NoRefs() {
	ctx, cancel := testContext()
	defer cancel()

	documents, err := s.adapter.ListDocuments(ctx)
	s.Require().NoError(err)
	s.Empty(documents)
	s.Empty(s.next.calls)
}

func (s *RedisTestSuite) TestListDocuments_NextError() {
	ctx, cancel := testContext()
	defer cancel()

	s.next.err = errors.New("bogus")

	_, err := s.adapter.ListDocuments(ctx, "C1")
	s.Require().Error(err)

	exists, err := s.client.Exists(ctx, "test:docs:C1").Result()
	s.Require().NoError(err)
	s.Equal(int64(0), exists)
}

func (s *RedisTestSuite) TestListDocuments_CorruptEntry() {
	ctx, cancel := testContext()
	defer cancel()

	doc1 := testDocument("C1", "plan")
	s.Require().NoError(s.next.SaveDocuments(ctx, doc1))
	s.Require().NoError(s.client.Set(ctx, "test:docs:C1", "{not json", time.Minute).Err())

	documents, err := s.adapter.ListDocuments(ctx, "C1")
	s.Require().NoError(err)
	s.Equal([]casedocs.Document{doc1}, documents)
	s.Len(s.next.calls, 1)
}

func (s *RedisTestSuite) TestSaveDocuments_EvictsCachedCases() {
	ctx, cancel := testContext()
	defer cancel()

	var (
		doc1 = testDocument("C1", "plan")
		doc2 = testDocument("C2", "report")
	)
	s.Require().NoError(s.adapter.SaveDocuments(ctx, doc1, doc2))

	_, err := s.adapter.ListDocuments(ctx, "C1", "C2")
	s.Require().NoError(err)
	s.Len(s.next.calls, 1)

	doc3 := testDocument("C1", "photos")
	s.Require().NoError(s.adapter.SaveDocuments(ctx, doc3))

	documents, err := s.adapter.ListDocuments(ctx, "C1", "C2")
	s.Require().NoError(err)
	s.ElementsMatch([]casedocs.Document{doc1, doc2, doc3}, documents)
	s.Equal([][]casedocs.CaseRef{{"C1", "C2"}, {"C1"}}, s.next.calls)
}

func (s *RedisTestSuite) TestEvictDocuments_AfterCommit() {
	ctx, cancel := testContext()
	defer cancel()

	doc1 := testDocument("C1", "plan")
	s.Require().NoError(s.next.SaveDocuments(ctx, doc1))

	// A lookup between the uncommitted write and commit caches the old rows.
	s.next.deferred = true
	doc2 := testDocument("C1", "photos")
	s.Require().NoError(s.adapter.SaveDocuments(ctx, doc2))

	documents, err := s.adapter.ListDocuments(ctx, "C1")
	s.Require().NoError(err)
	s.Equal([]casedocs.Document{doc1}, documents)

	s.next.commit()

	documents, err = s.adapter.ListDocuments(ctx, "C1")
	s.Require().NoError(err)
	s.Equal([]casedocs.Document{doc1}, documents, "stale until evicted")

	s.Require().NoError(s.adapter.EvictDocuments(ctx, "C1", "C1", "C9"))

	documents, err = s.adapter.ListDocuments(ctx, "C1")
	s.Require().NoError(err)
	s.Equal([]casedocs.Document{doc1, doc2}, documents)
}

func (s *RedisTestSuite) TestEvictDocuments_NoRefs() {
	ctx, cancel := testContext()
	defer cancel()

	s.Require().NoError(s.adapter.EvictDocuments(ctx))
}
