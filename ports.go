package casedocs

import (
	"context"
	"database/sql"
	"io"
	"io/fs"

	"github.com/RichardKnop/casedocs/pkg/authz"
)

type Store interface {
	Transactional
	SurveyorStore
	CaseStore
	DataFileStore
}

type Transactional interface {
	Transactional(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error
}

type SurveyorStore interface {
	SaveSurveyor(ctx context.Context, principal authz.Principal) error
}

type CaseStore interface {
	SaveCases(ctx context.Context, cases ...*Case) error
	FindCase(ctx context.Context, ref CaseRef) (*Case, error)
	// FindCases returns the cases that exist among refs, in no particular order.
	FindCases(ctx context.Context, refs ...CaseRef) ([]*Case, error)
	ListCases(ctx context.Context, filter CaseFilter, partial authz.Partial, params SortParams) ([]*Case, error)
}

// DocumentIndex lists documents attached to cases. ListDocuments returns the
// documents of every given case in a single round trip.
type DocumentIndex interface {
	SaveDocuments(ctx context.Context, documents ...Document) error
	ListDocuments(ctx context.Context, refs ...CaseRef) ([]Document, error)
}

// DocumentCache is implemented by document indexes that keep copies of
// documents outside the store transaction. EvictDocuments drops the copies
// for refs so the next ListDocuments reads committed rows.
type DocumentCache interface {
	EvictDocuments(ctx context.Context, refs ...CaseRef) error
}

type DataFileStore interface {
	SaveDataFile(ctx context.Context, file *DataFile) error
	FindDataFile(ctx context.Context, id DataFileID) (*DataFile, error)
}

// FileStorage holds data file contents under object names.
type FileStorage interface {
	Write(ctx context.Context, name string, data io.Reader) error
	Exists(ctx context.Context, name string) (bool, error)
	Read(ctx context.Context, name string) (io.ReadSeekCloser, error)
	Delete(ctx context.Context, name string) error
}

// FileSystem is the read-only view of the disk the form metadata provider needs.
// fstest.MapFS satisfies it.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}
