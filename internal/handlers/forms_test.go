package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gdg-garage/career-fair-api/internal/auth"
	"github.com/gdg-garage/career-fair-api/internal/config"
	"github.com/gdg-garage/career-fair-api/internal/database"
	"github.com/gdg-garage/career-fair-api/internal/form"
	"github.com/gdg-garage/career-fair-api/internal/logger"
	"github.com/gdg-garage/career-fair-api/internal/metrics"
	"github.com/gdg-garage/career-fair-api/internal/models"
	"github.com/gdg-garage/career-fair-api/internal/session"
	"github.com/gdg-garage/career-fair-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAnnouncer struct {
	mu   sync.Mutex
	regs []models.CompanyRegistration
	err  error
}

func (a *fakeAnnouncer) NotifyRegistration(reg models.CompanyRegistration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.regs = append(a.regs, reg)
	return a.err
}

type failingStore struct{}

func (failingStore) InsertRegistration(ctx context.Context, reg *models.CompanyRegistration) error {
	return errors.New("database is locked")
}

// blockingStore holds every insert until release is closed.
type blockingStore struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) InsertRegistration(ctx context.Context, reg *models.CompanyRegistration) error {
	s.entered <- struct{}{}
	<-s.release
	return nil
}

type testEnv struct {
	api       humatest.TestAPI
	db        *gorm.DB
	auth      *auth.AuthHandler
	announcer *fakeAnnouncer
	metrics   *metrics.Metrics
}

// newTestEnv serves the form and organizer operations. A nil formStore
// persists into the test database.
func newTestEnv(t *testing.T, formStore form.Store) *testEnv {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	catalog := form.DefaultCatalog()
	registrations := store.NewRegistrationStore(db)
	if formStore == nil {
		formStore = registrations
	}

	log := logger.Discard()
	sessions := session.NewManager(catalog, formStore, log, time.Hour)
	m := metrics.New(sessions.Len)
	announcer := &fakeAnnouncer{}
	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db, log)

	_, api := humatest.New(t, NewAPIConfig())
	RegisterFormRoutes(api,
		NewFormHandler(sessions, auth.NewFormTokens("test-secret", time.Hour), announcer, m, log),
		NewTracksHandler(catalog),
	)
	RegisterOrganizerRoutes(api, authHandler, NewRegistrationHandler(registrations, catalog, authHandler))

	return &testEnv{api: api, db: db, auth: authHandler, announcer: announcer, metrics: m}
}

// startForm opens a form and returns its id and the Cookie header that
// grants access to it.
func (e *testEnv) startForm(t *testing.T) (string, string) {
	t.Helper()
	resp := e.api.Post("/forms")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	state := decodeState(t, resp.Body.Bytes())
	var token string
	for _, c := range resp.Result().Cookies() {
		if c.Name == auth.FormSessionCookie {
			token = c.Value
		}
	}
	require.NotEmpty(t, token, "expected a form session cookie")
	return state.ID, "Cookie: " + auth.FormSessionCookie + "=" + token
}

func (e *testEnv) set(t *testing.T, id, cookie, field, value string) {
	t.Helper()
	resp := e.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": field, "value": value})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func (e *testEnv) fillValid(t *testing.T, id, cookie string) {
	t.Helper()
	for _, kv := range [][2]string{
		{"companyName", "Constructora del Norte"},
		{"location", "Monterrey, NL"},
		{"contactName", "Ana Pérez"},
		{"role", "Recruiter"},
		{"email", "ana@constructora.mx"},
		{"phone", "555-555-5555"},
		{"hasCompanion", "no"},
		{"hasExtraAttendees", "no"},
		{"vacancyLevel", "Internships"},
		{"wantsStand", "no"},
		{"joinsJobBoard", "yes"},
		{"bringsItems", "no"},
		{"dataUseConsent", "yes"},
	} {
		e.set(t, id, cookie, kv[0], kv[1])
	}
	for _, track := range []string{"ing-civil", "lic-mercadotecnia"} {
		resp := e.api.Put("/forms/"+id+"/tracks/"+track, cookie)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}
}

func decodeState(t *testing.T, body []byte) FormState {
	t.Helper()
	var state FormState
	require.NoError(t, json.Unmarshal(body, &state))
	return state
}

func decodeError(t *testing.T, body []byte) huma.ErrorModel {
	t.Helper()
	var model huma.ErrorModel
	require.NoError(t, json.Unmarshal(body, &model))
	return model
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func descriptor(state FormState, name form.Field) (form.Descriptor, bool) {
	for _, d := range state.Fields {
		if d.Name == name {
			return d, true
		}
	}
	return form.Descriptor{}, false
}

func TestTracks_List(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.api.Get("/tracks")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Tracks []form.Track `json:"tracks"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Tracks)
	assert.Equal(t, form.Track{ID: "ing-civil", Name: "Ingeniería Civil"}, body.Tracks[0])
}

func TestForm_CreateAndGet(t *testing.T) {
	env := newTestEnv(t, nil)
	id, cookie := env.startForm(t)

	resp := env.api.Get("/forms/"+id, cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	state := decodeState(t, resp.Body.Bytes())
	assert.Equal(t, id, state.ID)
	assert.False(t, state.Busy)
	assert.Equal(t, form.SubmitLabel, state.SubmitLabel)
	require.NotEmpty(t, state.Fields)
	assert.Equal(t, form.CompanyName, state.Fields[0].Name)

	_, ok := descriptor(state, form.CompanionName)
	assert.False(t, ok, "companion fields stay hidden until the gate is answered yes")

	t.Run("NoCookie", func(t *testing.T) {
		resp := env.api.Get("/forms/" + id)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("ExpiredCookie", func(t *testing.T) {
		stale, err := auth.NewFormTokens("test-secret", -time.Minute).Issue(id)
		require.NoError(t, err)
		resp := env.api.Get("/forms/"+id, "Cookie: "+auth.FormSessionCookie+"="+stale)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Contains(t, resp.Body.String(), "expired")
	})

	t.Run("OtherSessionCookie", func(t *testing.T) {
		_, otherCookie := env.startForm(t)
		resp := env.api.Get("/forms/"+id, otherCookie)
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestForm_SetField(t *testing.T) {
	env := newTestEnv(t, nil)
	id, cookie := env.startForm(t)

	resp := env.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": "companyName", "value": "A"})
	require.Equal(t, http.StatusOK, resp.Code)
	d, ok := descriptor(decodeState(t, resp.Body.Bytes()), form.CompanyName)
	require.True(t, ok)
	assert.Equal(t, "A", d.Value)
	assert.NotEmpty(t, d.Error)

	resp = env.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": "hasCompanion", "value": "sí"})
	require.Equal(t, http.StatusOK, resp.Code)
	state := decodeState(t, resp.Body.Bytes())
	d, ok = descriptor(state, form.CompanionName)
	require.True(t, ok)
	assert.Equal(t, form.HasCompanion, d.Gate)
	d, ok = descriptor(state, form.Location)
	require.True(t, ok)
	assert.Empty(t, d.Error, "untouched fields show no error before submit")

	resp = env.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": "extraAttendeeCount", "value": "2"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, "count is hidden until the gate is yes")
	resp = env.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": "hasExtraAttendees", "value": "yes"})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = env.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": "extraAttendeeCount", "value": "2"})
	require.Equal(t, http.StatusOK, resp.Code)
	state = decodeState(t, resp.Body.Bytes())
	d, ok = descriptor(state, form.AttendeeSlot(1))
	require.True(t, ok)
	assert.Equal(t, "Extra attendee #2 name", d.Label)

	t.Run("Rejected", func(t *testing.T) {
		for _, body := range []map[string]any{
			{"field": "nonsense", "value": "x"},
			{"field": "hasCompanion", "value": "maybe"},
			{"field": "extraAttendeeCount", "value": "-1"},
			{"field": "extraAttendeeCount", "value": "two"},
			{"field": "extraAttendeeNames.7", "value": "Ana"},
		} {
			resp := env.api.Patch("/forms/"+id+"/fields", cookie, body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, "%v", body)
		}
	})

	t.Run("UnknownTrack", func(t *testing.T) {
		resp := env.api.Put("/forms/"+id+"/tracks/astrologia", cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestForm_Tracks(t *testing.T) {
	env := newTestEnv(t, nil)
	id, cookie := env.startForm(t)

	env.api.Put("/forms/"+id+"/tracks/lic-mercadotecnia", cookie)
	env.api.Put("/forms/"+id+"/tracks/ing-civil", cookie)
	resp := env.api.Put("/forms/"+id+"/tracks/lic-mercadotecnia", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	state := decodeState(t, resp.Body.Bytes())
	require.Len(t, state.Tracks, 2)
	assert.Equal(t, "lic-mercadotecnia", state.Tracks[0].ID)
	assert.Equal(t, "Ingeniería Civil", state.Tracks[1].Name)

	resp = env.api.Delete("/forms/"+id+"/tracks/lic-mercadotecnia", cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	state = decodeState(t, resp.Body.Bytes())
	require.Len(t, state.Tracks, 1)
	assert.Equal(t, "ing-civil", state.Tracks[0].ID)
}

func TestForm_SubmitSuccess(t *testing.T) {
	env := newTestEnv(t, nil)
	id, cookie := env.startForm(t)
	env.fillValid(t, id, cookie)

	resp := env.api.Post("/forms/"+id+"/submit", cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Reference string    `json:"reference"`
		Message   string    `json:"message"`
		Form      FormState `json:"form"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Reference)
	assert.Equal(t, form.SuccessMessage, body.Message)
	require.NotNil(t, body.Form.Notice)
	assert.Equal(t, session.NoticeSuccess, body.Form.Notice.Kind)
	assert.Empty(t, body.Form.Tracks)
	d, _ := descriptor(body.Form, form.CompanyName)
	assert.Empty(t, d.Value, "form is reset after a successful submit")

	var stored models.CompanyRegistration
	require.NoError(t, env.db.First(&stored).Error)
	assert.Equal(t, body.Reference, stored.Reference)
	assert.Equal(t, models.RegistrantCompany, stored.RegistrantType)
	assert.Equal(t, "ing-civil,lic-mercadotecnia", stored.Tracks)
	assert.False(t, stored.HasCompanion)
	assert.Empty(t, stored.CompanionName)

	require.Len(t, env.announcer.regs, 1)
	assert.Equal(t, body.Reference, env.announcer.regs[0].Reference)
	assert.Contains(t, scrape(t, env.metrics), `registration_submissions_total{outcome="success"} 1`)
	assert.Contains(t, scrape(t, env.metrics), `registration_notifications_total{outcome="success"} 1`)

	// The notice is shown once.
	resp = env.api.Get("/forms/"+id, cookie)
	assert.Nil(t, decodeState(t, resp.Body.Bytes()).Notice)
}

func TestForm_SubmitInvalid(t *testing.T) {
	env := newTestEnv(t, nil)
	id, cookie := env.startForm(t)
	env.fillValid(t, id, cookie)
	resp := env.api.Delete("/forms/"+id+"/tracks/ing-civil", cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = env.api.Delete("/forms/"+id+"/tracks/lic-mercadotecnia", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.api.Post("/forms/"+id+"/submit", cookie)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	model := decodeError(t, resp.Body.Bytes())
	require.Len(t, model.Errors, 1)
	assert.Equal(t, string(form.DesiredTracks), model.Errors[0].Location)
	assert.Equal(t, "select at least one track.", model.Errors[0].Message)

	var count int64
	env.db.Model(&models.CompanyRegistration{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, env.announcer.regs)

	// After a submit attempt every active field reports its error.
	resp = env.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": "location", "value": ""})
	require.Equal(t, http.StatusOK, resp.Code)
	d, _ := descriptor(decodeState(t, resp.Body.Bytes()), form.DesiredTracks)
	assert.Equal(t, "select at least one track.", d.Error)
}

func TestForm_SubmitStoreFailure(t *testing.T) {
	env := newTestEnv(t, failingStore{})
	id, cookie := env.startForm(t)
	env.fillValid(t, id, cookie)

	resp := env.api.Post("/forms/"+id+"/submit", cookie)
	require.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Empty(t, env.announcer.regs)

	resp = env.api.Get("/forms/"+id, cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	state := decodeState(t, resp.Body.Bytes())
	require.NotNil(t, state.Notice)
	assert.Equal(t, session.NoticeFailure, state.Notice.Kind)
	d, _ := descriptor(state, form.CompanyName)
	assert.Equal(t, "Constructora del Norte", d.Value, "record is kept for a retry")
	assert.Len(t, state.Tracks, 2)
}

func TestForm_SubmitWhileBusy(t *testing.T) {
	blocking := &blockingStore{entered: make(chan struct{}), release: make(chan struct{})}
	env := newTestEnv(t, blocking)
	id, cookie := env.startForm(t)
	env.fillValid(t, id, cookie)

	done := make(chan int)
	go func() {
		done <- env.api.Post("/forms/"+id+"/submit", cookie).Code
	}()
	<-blocking.entered

	resp := env.api.Get("/forms/"+id, cookie)
	state := decodeState(t, resp.Body.Bytes())
	assert.True(t, state.Busy)
	assert.Equal(t, form.BusyLabel, state.SubmitLabel)

	resp = env.api.Post("/forms/"+id+"/submit", cookie)
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = env.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": "companyName", "value": "Other"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	close(blocking.release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestForm_AnnouncerFailureDoesNotFailSubmit(t *testing.T) {
	env := newTestEnv(t, nil)
	env.announcer.err = errors.New("discord is down")
	id, cookie := env.startForm(t)
	env.fillValid(t, id, cookie)

	resp := env.api.Post("/forms/"+id+"/submit", cookie)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, env.announcer.regs, 1)
	assert.Contains(t, scrape(t, env.metrics), `registration_notifications_total{outcome="failed"} 1`)
}

func TestForm_CookieRenewedOnUse(t *testing.T) {
	env := newTestEnv(t, nil)
	id, cookie := env.startForm(t)

	resp := env.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": "companyName", "value": "Acme"})
	require.Equal(t, http.StatusOK, resp.Code)

	var renewed *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == auth.FormSessionCookie {
			renewed = c
		}
	}
	require.NotNil(t, renewed, "every authorized request reissues the form cookie")
	assert.Equal(t, "/forms/"+id, renewed.Path)
	assert.True(t, renewed.Expires.After(time.Now().Add(30*time.Minute)))

	resp = env.api.Get("/forms/"+id, "Cookie: "+auth.FormSessionCookie+"="+renewed.Value)
	require.Equal(t, http.StatusOK, resp.Code)
	d, _ := descriptor(decodeState(t, resp.Body.Bytes()), form.CompanyName)
	assert.Equal(t, "Acme", d.Value)
}

func TestForm_HiddenFieldEditRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	id, cookie := env.startForm(t)

	resp := env.api.Patch("/forms/"+id+"/fields", cookie, map[string]any{"field": "companionName", "value": "Luis"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, decodeError(t, resp.Body.Bytes()).Detail, "hidden")

	env.set(t, id, cookie, "hasCompanion", "yes")
	resp = env.api.Get("/forms/"+id, cookie)
	d, ok := descriptor(decodeState(t, resp.Body.Bytes()), form.CompanionName)
	require.True(t, ok)
	assert.Empty(t, d.Value)
	assert.Empty(t, d.Error)
}
