package rest

import (
	"context"
	"net/http"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/api"
)

// List form templates
// (GET /forms)
func (a *Adapter) ListForms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	names, err := a.forms.ListForms(ctx)
	if err != nil {
		a.renderServiceError(w, err, "error listing forms")
		return
	}
	if names == nil {
		names = []string{}
	}

	renderJSON(w, api.Forms{Forms: names})
}

// Get form metadata
// (GET /forms/{name})
func (a *Adapter) GetForm(w http.ResponseWriter, r *http.Request, name string) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	metadata, err := a.forms.FormMetadata(ctx, name)
	if err != nil {
		a.renderServiceError(w, err, "error reading form metadata")
		return
	}

	renderJSON(w, mapForm(metadata))
}

func mapForm(metadata *casedocs.FormMetadata) api.Form {
	apiForm := api.Form{
		Name:    metadata.Name,
		Title:   metadata.Title,
		Version: metadata.Version,
		Fields:  make([]api.FormField, 0, len(metadata.Fields)),
	}
	for _, field := range metadata.Fields {
		apiForm.Fields = append(apiForm.Fields, api.FormField{
			Name:     field.Name,
			Label:    field.Label,
			Type:     field.Type,
			Required: field.Required,
		})
	}
	return apiForm
}
