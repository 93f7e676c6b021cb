package rest

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/api"
)

// Upload a data file
// (POST /files)
func (a *Adapter) UploadFile(w http.ResponseWriter, r *http.Request) {
	var (
		ctx, cancel = context.WithTimeout(r.Context(), uploadTimeout)
		principal   = a.principalFromRequest(r, nil)
	)
	defer cancel()

	if principal.Code() == "" {
		renderJSONError(w, http.StatusBadRequest, errMissingSurveyor)
		return
	}

	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, casedocs.MaxFileSize+casedocs.MB)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			renderJSONError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds %d bytes", casedocs.MaxFileSize))
			return
		}
		renderJSONError(w, http.StatusBadRequest, fmt.Errorf("error reading file from request: %w", err))
		return
	}
	defer file.Close()

	aFile, err := a.caseDocs.CreateDataFile(ctx, principal, header.Filename, file)
	if err != nil {
		a.renderServiceError(w, err, "error creating data file")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/files/%d", aFile.ID))
	renderJSONStatus(w, http.StatusCreated, mapDataFile(aFile))
}

// Download a data file
// (GET /files/{id})
func (a *Adapter) DownloadFile(w http.ResponseWriter, r *http.Request, id int64) {
	ctx, cancel := context.WithTimeout(r.Context(), uploadTimeout)
	defer cancel()

	fileID := casedocs.DataFileID(id)
	aFile, contents, err := a.caseDocs.OpenDataFile(ctx, &fileID)
	if err != nil {
		a.renderServiceError(w, err, "error opening data file")
		return
	}
	defer contents.Close()

	w.Header().Set("Content-Type", aFile.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": aFile.FileName}))
	w.Header().Set("ETag", `"`+aFile.Hash+`"`)
	http.ServeContent(w, r, aFile.FileName, aFile.Created, contents)
}

func mapDataFile(aFile *casedocs.DataFile) api.DataFile {
	return api.DataFile{
		Id:          int64(aFile.ID),
		AuthorCode:  string(aFile.AuthorCode),
		FileName:    aFile.FileName,
		ContentType: aFile.ContentType,
		Size:        aFile.Size,
		Hash:        aFile.Hash,
		CreatedAt:   aFile.Created,
	}
}
