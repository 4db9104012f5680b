package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/career-fair-api/internal/auth"
	"github.com/gdg-garage/career-fair-api/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewAPIConfig() huma.Config {
	config := huma.DefaultConfig("Career Fair API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.OrganizerCookie,
		},
		"formSession": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.FormSessionCookie,
		},
	}
	return config
}

func RegisterRoutes(r *chi.Mux, authHandler *auth.AuthHandler, formHandler *FormHandler, tracksHandler *TracksHandler, registrationHandler *RegistrationHandler, m *metrics.Metrics) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	api := humachi.New(r, NewAPIConfig())

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Organizer routes
	r.Get("/auth/discord/login", authHandler.HandleLogin)
	r.Get("/auth/discord/callback", authHandler.HandleCallback)
	r.With(authHandler.OrganizerMiddleware).Handle("/metrics", m.Handler())

	RegisterFormRoutes(api, formHandler, tracksHandler)
	RegisterOrganizerRoutes(api, authHandler, registrationHandler)
}

func RegisterFormRoutes(api huma.API, formHandler *FormHandler, tracksHandler *TracksHandler) {
	formSession := []map[string][]string{{"formSession": {}}}

	huma.Get(api, "/tracks", tracksHandler.HandleList)

	huma.Register(api, huma.Operation{
		OperationID:   "create-form",
		Method:        http.MethodPost,
		Path:          "/forms",
		Summary:       "Start a registration form",
		DefaultStatus: http.StatusCreated,
	}, formHandler.HandleCreate)
	huma.Get(api, "/forms/{id}", formHandler.HandleGet, func(o *huma.Operation) {
		o.Security = formSession
	})
	huma.Patch(api, "/forms/{id}/fields", formHandler.HandleSetField, func(o *huma.Operation) {
		o.Security = formSession
	})
	huma.Put(api, "/forms/{id}/tracks/{track}", formHandler.HandleAddTrack, func(o *huma.Operation) {
		o.Security = formSession
	})
	huma.Delete(api, "/forms/{id}/tracks/{track}", formHandler.HandleRemoveTrack, func(o *huma.Operation) {
		o.Security = formSession
	})
	huma.Post(api, "/forms/{id}/submit", formHandler.HandleSubmit, func(o *huma.Operation) {
		o.Security = formSession
	})
}

func RegisterOrganizerRoutes(api huma.API, authHandler *auth.AuthHandler, registrationHandler *RegistrationHandler) {
	cookieAuth := []map[string][]string{{"cookieAuth": {}}}

	huma.Get(api, "/me", authHandler.HandleMe, func(o *huma.Operation) {
		o.Security = cookieAuth
	})
	huma.Get(api, "/registrations", registrationHandler.HandleList, func(o *huma.Operation) {
		o.Security = cookieAuth
	})
	huma.Get(api, "/registrations/{id}", registrationHandler.HandleGet, func(o *huma.Operation) {
		o.Security = cookieAuth
	})
}
