package handlers

import (
	"context"

	"github.com/gdg-garage/career-fair-api/internal/form"
)

type TracksOutput struct {
	Body struct {
		Tracks []form.Track `json:"tracks"`
	}
}

// TracksHandler serves the reference table the track picker is built from.
type TracksHandler struct {
	catalog *form.Catalog
}

func NewTracksHandler(catalog *form.Catalog) *TracksHandler {
	return &TracksHandler{catalog: catalog}
}

func (h *TracksHandler) HandleList(ctx context.Context, input *struct{}) (*TracksOutput, error) {
	resp := &TracksOutput{}
	resp.Body.Tracks = h.catalog.Tracks()
	return resp, nil
}
