package form

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdg-garage/career-fair-api/internal/logger"
	"github.com/gdg-garage/career-fair-api/internal/models"
)

// MaxExtraAttendees bounds the attendee count accepted at input.
const MaxExtraAttendees = 100

const (
	SubmitLabel    = "Register company"
	BusyLabel      = "Registering..."
	SuccessMessage = "Registration successful!"
	FailureMessage = "Registration failed, please try again"
)

// Store persists a finished registration in a single insert.
type Store interface {
	InsertRegistration(ctx context.Context, reg *models.CompanyRegistration) error
}

// Notifier shows the outcome of a submission to the user.
type Notifier interface {
	NotifySuccess(message string)
	NotifyFailure(message string)
}

// Form owns one in-progress Record. Every edit revalidates the record and a
// submission freezes it until the store answers.
type Form struct {
	catalog  *Catalog
	store    Store
	notifier Notifier
	log      logger.Logger

	mu        sync.Mutex
	record    Record
	errors    map[Field]string
	touched   map[Field]bool
	submitted bool
	busy      bool
}

// New builds an empty form. A nil catalog falls back to DefaultCatalog.
func New(catalog *Catalog, store Store, notifier Notifier, log logger.Logger) *Form {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	f := &Form{
		catalog:  catalog,
		store:    store,
		notifier: notifier,
		log:      log,
	}
	f.reset()
	return f
}

func (f *Form) reset() {
	f.record = Record{}
	f.errors = map[Field]string{}
	f.touched = map[Field]bool{}
	f.submitted = false
}

// Record returns a copy of the current record.
func (f *Form) Record() Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record.Clone()
}

// edit applies one user interaction. apply must leave the record untouched
// when it returns an error.
func (f *Form) edit(touched Field, apply func(r *Record) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy {
		return ErrSubmitInProgress
	}

	before := Active(&f.record)
	if _, gated := gateOf(touched); gated && !before[touched] {
		// A slot past the count under an open gate is reported by apply.
		if _, slot := SlotIndex(touched); !slot || !before[ExtraAttendeeCount] {
			return fmt.Errorf("%w: %q", ErrInactiveField, touched)
		}
	}
	if err := apply(&f.record); err != nil {
		return err
	}
	for _, gone := range Deactivated(before, Active(&f.record)) {
		delete(f.touched, gone)
	}
	f.touched[touched] = true
	f.revalidate()
	return nil
}

// revalidate recomputes the visible errors: touched fields before the first
// submit attempt, every active field after it.
func (f *Form) revalidate() {
	all := Validate(&f.record, f.catalog)
	f.errors = make(map[Field]string, len(all))
	for field, msg := range all {
		if f.submitted || f.touched[field] {
			f.errors[field] = msg
		}
	}
}

func (f *Form) SetText(field Field, value string) error {
	return f.edit(field, func(r *Record) error {
		p, ok := r.textField(field)
		if !ok {
			return fmt.Errorf("%w: %q is not a text field", ErrUnknownField, field)
		}
		*p = value
		return nil
	})
}

func (f *Form) SetAnswer(field Field, a Answer) error {
	return f.edit(field, func(r *Record) error {
		p, ok := r.answerField(field)
		if !ok {
			return fmt.Errorf("%w: %q is not a yes/no field", ErrUnknownField, field)
		}
		*p = a
		return nil
	})
}

// SetExtraAttendeeCount regenerates the attendee name slots to n entries.
func (f *Form) SetExtraAttendeeCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	if n > MaxExtraAttendees {
		return fmt.Errorf("%w: at most %d", ErrTooManyAttendees, MaxExtraAttendees)
	}
	return f.edit(ExtraAttendeeCount, func(r *Record) error {
		r.ExtraAttendeeCount = n
		r.ExtraAttendeeNames = ResizeNames(r.ExtraAttendeeNames, n)
		return nil
	})
}

func (f *Form) SetExtraAttendeeName(i int, name string) error {
	return f.edit(AttendeeSlot(i), func(r *Record) error {
		if i < 0 || i >= len(r.ExtraAttendeeNames) {
			return fmt.Errorf("%w: %d", ErrSlotOutOfRange, i+1)
		}
		r.ExtraAttendeeNames[i] = name
		return nil
	})
}

// AddTrack appends a desired track. Adding a track already selected is a no-op.
func (f *Form) AddTrack(id string) error {
	if !f.catalog.Contains(id) {
		return fmt.Errorf("%w: %q", ErrUnknownTrack, id)
	}
	return f.edit(DesiredTracks, func(r *Record) error {
		r.DesiredTracks.Add(id)
		return nil
	})
}

func (f *Form) RemoveTrack(id string) error {
	return f.edit(DesiredTracks, func(r *Record) error {
		r.DesiredTracks.Remove(id)
		return nil
	})
}

// SetField applies a raw text value the way the matching control would.
func (f *Form) SetField(field Field, raw string) error {
	if i, ok := SlotIndex(field); ok {
		return f.SetExtraAttendeeName(i, raw)
	}
	switch kindOf(field) {
	case KindAnswer:
		a, err := ParseAnswer(raw)
		if err != nil {
			return err
		}
		return f.SetAnswer(field, a)
	case KindCount:
		n, err := ParseCount(raw)
		if err != nil {
			return err
		}
		return f.SetExtraAttendeeCount(n)
	case KindTracks:
		return fmt.Errorf("%w: %q is edited by adding and removing tracks", ErrUnknownField, field)
	}
	return f.SetText(field, raw)
}

// Errors returns the errors currently shown next to each field.
func (f *Form) Errors() map[Field]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[Field]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Fields describes the active fields in display order.
func (f *Form) Fields() []Descriptor {
	return f.Snapshot().Fields
}

// SelectedTracks resolves the desired tracks to their labels.
func (f *Form) SelectedTracks() []Track {
	return f.Snapshot().Tracks
}

func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

func (f *Form) SubmitLabel() string {
	if f.Busy() {
		return BusyLabel
	}
	return SubmitLabel
}

// State is a consistent view of the form for one render.
type State struct {
	Fields      []Descriptor
	Tracks      []Track
	Busy        bool
	SubmitLabel string
}

// Snapshot reads everything a render needs under a single lock.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	order := Ordered(&f.record)
	st := State{
		Fields:      make([]Descriptor, 0, len(order)),
		Tracks:      f.record.DesiredTracks.Labels(f.catalog),
		Busy:        f.busy,
		SubmitLabel: SubmitLabel,
	}
	for _, field := range order {
		st.Fields = append(st.Fields, describe(&f.record, field, f.errors))
	}
	if f.busy {
		st.SubmitLabel = BusyLabel
	}
	return st
}

// Submit validates the record and hands it to the store. Only one submission
// runs at a time; a second call while one is in flight returns
// ErrSubmitInProgress without reaching the store. On success the form is
// reset; on failure the record is left as it was.
func (f *Form) Submit(ctx context.Context) (*models.CompanyRegistration, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	f.submitted = true
	f.revalidate()
	if len(f.errors) > 0 {
		verr := &ValidationError{Errors: make(map[Field]string, len(f.errors))}
		for k, v := range f.errors {
			verr.Errors[k] = v
		}
		f.mu.Unlock()
		return nil, verr
	}
	reg, err := Payload(&f.record, f.catalog)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.busy = true
	f.mu.Unlock()

	err = f.store.InsertRegistration(ctx, reg)

	f.mu.Lock()
	f.busy = false
	if err == nil {
		f.reset()
	}
	f.mu.Unlock()

	if err != nil {
		f.log.WithFields(map[string]interface{}{"company": reg.CompanyName}).Errorf("registration insert failed: %v", err)
		f.notifier.NotifyFailure(FailureMessage)
		return nil, fmt.Errorf("inserting registration: %w", err)
	}
	f.log.WithFields(map[string]interface{}{"reference": reg.Reference}).Infof("registration stored for %s", reg.CompanyName)
	f.notifier.NotifySuccess(SuccessMessage)
	return reg, nil
}
