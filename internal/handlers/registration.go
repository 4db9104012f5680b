package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/career-fair-api/internal/auth"
	"github.com/gdg-garage/career-fair-api/internal/form"
	"github.com/gdg-garage/career-fair-api/internal/models"
	"github.com/gdg-garage/career-fair-api/internal/store"
)

// RegistrationHandler lets signed-in organizers read submitted registrations.
type RegistrationHandler struct {
	store   *store.RegistrationStore
	catalog *form.Catalog
	auth    *auth.AuthHandler
}

func NewRegistrationHandler(s *store.RegistrationStore, catalog *form.Catalog, authHandler *auth.AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{store: s, catalog: catalog, auth: authHandler}
}

type RegistrationView struct {
	ID             uint      `json:"id"`
	Reference      string    `json:"reference"`
	RegistrantType string    `json:"registrant_type"`
	CreatedAt      time.Time `json:"created_at"`
	models.CompanyFields
	TrackLabels []form.Track `json:"track_labels" doc:"Desired tracks resolved against the current reference table"`
}

type ListRegistrationsInput struct {
	Cookie string `header:"Cookie"`
	Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"200"`
	Offset int    `query:"offset" default:"0" minimum:"0"`
}

type ListRegistrationsResponse struct {
	Body struct {
		Total         int64              `json:"total"`
		Registrations []RegistrationView `json:"registrations"`
	}
}

type GetRegistrationInput struct {
	Cookie string `header:"Cookie"`
	ID     uint   `path:"id"`
}

type GetRegistrationResponse struct {
	Body RegistrationView
}

func (h *RegistrationHandler) HandleList(ctx context.Context, input *ListRegistrationsInput) (*ListRegistrationsResponse, error) {
	if _, err := h.auth.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	regs, total, err := h.store.List(ctx, models.RegistrantCompany, input.Limit, input.Offset)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch registrations: " + err.Error())
	}

	resp := &ListRegistrationsResponse{}
	resp.Body.Total = total
	resp.Body.Registrations = make([]RegistrationView, 0, len(regs))
	for _, reg := range regs {
		resp.Body.Registrations = append(resp.Body.Registrations, h.view(reg))
	}
	return resp, nil
}

func (h *RegistrationHandler) HandleGet(ctx context.Context, input *GetRegistrationInput) (*GetRegistrationResponse, error) {
	if _, err := h.auth.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	reg, err := h.store.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("Registration not found")
		}
		return nil, huma.Error500InternalServerError("Failed to fetch registration: " + err.Error())
	}
	return &GetRegistrationResponse{Body: h.view(*reg)}, nil
}

// view resolves track ids to labels at read time, so a relabelled track shows
// its current name. Ids no longer in the table are shown as is.
func (h *RegistrationHandler) view(reg models.CompanyRegistration) RegistrationView {
	v := RegistrationView{
		ID:             reg.ID,
		Reference:      reg.Reference,
		RegistrantType: reg.RegistrantType,
		CreatedAt:      reg.CreatedAt,
		CompanyFields:  reg.CompanyFields,
		TrackLabels:    []form.Track{},
	}
	if v.ExtraAttendeeNames == nil {
		v.ExtraAttendeeNames = []string{}
	}
	if reg.Tracks == "" {
		return v
	}
	for _, id := range strings.Split(reg.Tracks, ",") {
		v.TrackLabels = append(v.TrackLabels, form.Track{ID: id, Name: h.catalog.Label(id)})
	}
	return v
}
