package casedocstest

import (
	"path"

	"github.com/RichardKnop/casedocs"
)

type DataFileOption func(*casedocs.DataFile)

func WithDataFileAuthor(code casedocs.SurveyorCode) DataFileOption {
	return func(f *casedocs.DataFile) {
		f.AuthorCode = code
	}
}

func WithDataFileLocation(location string) DataFileOption {
	return func(f *casedocs.DataFile) {
		f.Location = location
	}
}

func (g *DataGen) DataFile(options ...DataFileOption) *casedocs.DataFile {
	var (
		hash     = g.LetterN(64)
		fileName = g.Word() + ".csv"
	)

	aFile := casedocs.DataFile{
		AuthorCode:  g.SurveyorCode(),
		FileName:    fileName,
		ContentType: "text/plain; charset=utf-8",
		Size:        int64(g.Number(1, casedocs.MaxFileSize)),
		Hash:        hash,
		Location:    path.Join("lists", hash, fileName),
		Created:     g.now,
	}

	for _, o := range options {
		o(&aFile)
	}

	return &aFile
}
