package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/career-fair-api/internal/auth"
	"github.com/gdg-garage/career-fair-api/internal/form"
	"github.com/gdg-garage/career-fair-api/internal/logger"
	"github.com/gdg-garage/career-fair-api/internal/metrics"
	"github.com/gdg-garage/career-fair-api/internal/notifier"
	"github.com/gdg-garage/career-fair-api/internal/session"
)

// FormHandler exposes the in-memory registration forms over HTTP.
type FormHandler struct {
	sessions  *session.Manager
	tokens    *auth.FormTokens
	announcer notifier.Notifier
	metrics   *metrics.Metrics
	log       logger.Logger
}

// NewFormHandler wires the form endpoints. announcer may be nil when Discord
// is not configured.
func NewFormHandler(sessions *session.Manager, tokens *auth.FormTokens, announcer notifier.Notifier, m *metrics.Metrics, log logger.Logger) *FormHandler {
	return &FormHandler{
		sessions:  sessions,
		tokens:    tokens,
		announcer: announcer,
		metrics:   m,
		log:       log,
	}
}

type FormState struct {
	ID          string            `json:"id"`
	Fields      []form.Descriptor `json:"fields"`
	Tracks      []form.Track      `json:"tracks" doc:"Selected tracks in selection order"`
	Busy        bool              `json:"busy"`
	SubmitLabel string            `json:"submit_label"`
	Notice      *session.Notice   `json:"notice,omitempty" doc:"Outcome of the last submission, shown once"`
}

type CreateFormInput struct{}

type FormOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      FormState
}

type FormInput struct {
	ID     string `path:"id"`
	Cookie string `header:"Cookie"`
}

type FormStateOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      FormState
}

type SetFieldInput struct {
	ID     string `path:"id"`
	Cookie string `header:"Cookie"`
	Body   struct {
		Field string `json:"field" minLength:"1" doc:"Field name, e.g. companyName or extraAttendeeNames.0"`
		Value string `json:"value" doc:"Raw value as typed; yes/no fields take yes, no or an empty string"`
	}
}

type TrackInput struct {
	ID     string `path:"id"`
	Track  string `path:"track"`
	Cookie string `header:"Cookie"`
}

type SubmitOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Reference string    `json:"reference"`
		Message   string    `json:"message"`
		Form      FormState `json:"form"`
	}
}

func (h *FormHandler) HandleCreate(ctx context.Context, input *CreateFormInput) (*FormOutput, error) {
	s := h.sessions.Create()
	cookie, err := h.cookie(s.ID)
	if err != nil {
		return nil, err
	}
	return &FormOutput{SetCookie: cookie, Body: h.state(s)}, nil
}

func (h *FormHandler) HandleGet(ctx context.Context, input *FormInput) (*FormStateOutput, error) {
	s, cookie, err := h.session(input.ID, input.Cookie)
	if err != nil {
		return nil, err
	}
	return &FormStateOutput{SetCookie: cookie, Body: h.state(s)}, nil
}

func (h *FormHandler) HandleSetField(ctx context.Context, input *SetFieldInput) (*FormStateOutput, error) {
	s, cookie, err := h.session(input.ID, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := s.Form.SetField(form.Field(input.Body.Field), input.Body.Value); err != nil {
		return nil, editError(err)
	}
	return &FormStateOutput{SetCookie: cookie, Body: h.state(s)}, nil
}

func (h *FormHandler) HandleAddTrack(ctx context.Context, input *TrackInput) (*FormStateOutput, error) {
	s, cookie, err := h.session(input.ID, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := s.Form.AddTrack(input.Track); err != nil {
		return nil, editError(err)
	}
	return &FormStateOutput{SetCookie: cookie, Body: h.state(s)}, nil
}

func (h *FormHandler) HandleRemoveTrack(ctx context.Context, input *TrackInput) (*FormStateOutput, error) {
	s, cookie, err := h.session(input.ID, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := s.Form.RemoveTrack(input.Track); err != nil {
		return nil, editError(err)
	}
	return &FormStateOutput{SetCookie: cookie, Body: h.state(s)}, nil
}

func (h *FormHandler) HandleSubmit(ctx context.Context, input *FormInput) (*SubmitOutput, error) {
	s, cookie, err := h.session(input.ID, input.Cookie)
	if err != nil {
		return nil, err
	}

	reg, err := s.Form.Submit(ctx)
	if err != nil {
		var verr *form.ValidationError
		switch {
		case errors.As(err, &verr):
			h.metrics.Submission(metrics.OutcomeInvalid)
			return nil, huma.Error422UnprocessableEntity("Please correct the highlighted fields", fieldErrors(verr.Errors)...)
		case errors.Is(err, form.ErrSubmitInProgress):
			h.metrics.Submission(metrics.OutcomeBusy)
			return nil, huma.Error409Conflict("A submission is already in progress")
		case errors.Is(err, form.ErrInvalidRecord):
			h.metrics.Submission(metrics.OutcomeInvalid)
			return nil, huma.Error422UnprocessableEntity(err.Error())
		default:
			h.metrics.Submission(metrics.OutcomeFailed)
			return nil, huma.Error502BadGateway(form.FailureMessage)
		}
	}
	h.metrics.Submission(metrics.OutcomeSuccess)

	if h.announcer != nil {
		if err := h.announcer.NotifyRegistration(*reg); err != nil {
			h.metrics.Notification(metrics.OutcomeFailed)
			h.log.Warnf("announcing registration %s: %v", reg.Reference, err)
		} else {
			h.metrics.Notification(metrics.OutcomeSuccess)
		}
	}

	resp := &SubmitOutput{SetCookie: cookie}
	resp.Body.Reference = reg.Reference
	resp.Body.Message = form.SuccessMessage
	resp.Body.Form = h.state(s)
	return resp, nil
}

// session resolves the form addressed by id, checks that the caller holds its
// cookie and returns a renewed cookie for the response.
func (h *FormHandler) session(id, cookieHeader string) (*session.Session, http.Cookie, error) {
	token := auth.CookieValue(cookieHeader, auth.FormSessionCookie)
	if token == "" {
		return nil, http.Cookie{}, huma.Error401Unauthorized("Unauthorized: No form session")
	}
	if err := h.tokens.Verify(token, id); err != nil {
		if errors.Is(err, auth.ErrSessionExpired) {
			return nil, http.Cookie{}, huma.Error401Unauthorized("Form session expired, please start a new form")
		}
		return nil, http.Cookie{}, huma.Error403Forbidden("Form session does not match")
	}
	s, ok := h.sessions.Get(id)
	if !ok {
		return nil, http.Cookie{}, huma.Error404NotFound("Form session not found or expired")
	}
	cookie, err := h.cookie(id)
	if err != nil {
		return nil, http.Cookie{}, err
	}
	return s, cookie, nil
}

// cookie issues a fresh form session cookie, sliding its expiry along with
// the session's idle timeout.
func (h *FormHandler) cookie(id string) (http.Cookie, error) {
	token, err := h.tokens.Issue(id)
	if err != nil {
		h.log.Errorf("issuing form session token: %v", err)
		return http.Cookie{}, huma.Error500InternalServerError("Failed to issue form session")
	}
	return http.Cookie{
		Name:     auth.FormSessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Path:     "/forms/" + id,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func (h *FormHandler) state(s *session.Session) FormState {
	snap := s.Form.Snapshot()
	return FormState{
		ID:          s.ID,
		Fields:      snap.Fields,
		Tracks:      snap.Tracks,
		Busy:        snap.Busy,
		SubmitLabel: snap.SubmitLabel,
		Notice:      s.Notices.Take(),
	}
}

func editError(err error) error {
	switch {
	case errors.Is(err, form.ErrSubmitInProgress):
		return huma.Error409Conflict("The form is locked while it is being submitted")
	case errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrUnknownTrack),
		errors.Is(err, form.ErrInvalidAnswer),
		errors.Is(err, form.ErrNegativeCount),
		errors.Is(err, form.ErrNotAnInteger),
		errors.Is(err, form.ErrTooManyAttendees),
		errors.Is(err, form.ErrSlotOutOfRange),
		errors.Is(err, form.ErrInactiveField):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	return huma.Error500InternalServerError("Failed to update form")
}

func fieldErrors(errs map[form.Field]string) []error {
	names := make([]string, 0, len(errs))
	for f := range errs {
		names = append(names, string(f))
	}
	sort.Strings(names)

	out := make([]error, 0, len(names))
	for _, name := range names {
		out = append(out, &huma.ErrorDetail{
			Location: name,
			Message:  errs[form.Field(name)],
		})
	}
	return out
}
