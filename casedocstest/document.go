package casedocstest

import (
	"time"

	"github.com/RichardKnop/casedocs"
)

type DocumentOption func(*casedocs.Document)

func WithDocumentCaseRef(ref casedocs.CaseRef) DocumentOption {
	return func(d *casedocs.Document) {
		d.CaseRef = ref
	}
}

func WithDocumentCreated(created time.Time) DocumentOption {
	return func(d *casedocs.Document) {
		d.Created = created
	}
}

func (g *DataGen) Document(options ...DocumentOption) casedocs.Document {
	aDocument := casedocs.Document{
		ID:       casedocs.NewDocumentID(),
		CaseRef:  g.CaseRef(),
		Title:    g.Sentence(4),
		FileName: g.Word() + "." + g.FileExtension(),
		Created:  g.now,
	}

	for _, o := range options {
		o(&aDocument)
	}

	return aDocument
}

// Documents returns n documents attached to ref, created one second apart.
func (g *DataGen) Documents(ref casedocs.CaseRef, n int) []casedocs.Document {
	documents := make([]casedocs.Document, 0, n)
	for i := range n {
		documents = append(documents, g.Document(
			WithDocumentCaseRef(ref),
			WithDocumentCreated(g.now.Add(time.Duration(i)*time.Second)),
		))
	}
	return documents
}
