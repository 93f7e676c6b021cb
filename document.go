package casedocs

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

type DocumentID struct{ uuid.UUID }

func NewDocumentID() DocumentID {
	return DocumentID{uuid.Must(uuid.NewV4())}
}

type Document struct {
	ID       DocumentID `json:"id"`
	CaseRef  CaseRef    `json:"case_ref"`
	Title    string     `json:"title"`
	FileName string     `json:"file_name"`
	Created  time.Time  `json:"created"`
}

func (d Document) Sanitize() Document {
	d.Title = strings.Join(strings.Fields(d.Title), " ")
	d.FileName = strings.TrimSpace(d.FileName)
	return d
}

// PartitionDocuments groups documents by case ref. Every ref in refs gets an
// entry, empty when it has no documents, and documents belonging to other
// cases are dropped. Order within a case follows the input order.
func PartitionDocuments(refs []CaseRef, documents []Document) map[CaseRef][]Document {
	grouped := make(map[CaseRef][]Document, len(refs))
	for _, ref := range refs {
		grouped[ref] = []Document{}
	}

	for _, aDocument := range documents {
		existing, ok := grouped[aDocument.CaseRef]
		if !ok {
			continue
		}
		grouped[aDocument.CaseRef] = append(existing, aDocument)
	}

	return grouped
}
