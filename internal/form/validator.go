package form

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

var validate = validator.New()

type rule func(r *Record, f Field) string

func minLength(n int) rule {
	return func(r *Record, f Field) string {
		v := norm.NFC.String(strings.TrimSpace(r.Value(f)))
		if utf8.RuneCountInString(v) < n {
			return fmt.Sprintf("%s must be at least %d characters", labelOf(f), n)
		}
		return ""
	}
}

func required(r *Record, f Field) string {
	if strings.TrimSpace(r.Value(f)) == "" {
		return fmt.Sprintf("%s is required", labelOf(f))
	}
	return ""
}

func email(r *Record, f Field) string {
	v := strings.TrimSpace(r.Value(f))
	if err := validate.Var(v, "required,email"); err != nil {
		return fmt.Sprintf("%s must be a valid email address", labelOf(f))
	}
	return ""
}

func answered(r *Record, f Field) string {
	a, _ := r.answerField(f)
	if !a.Answered() {
		return fmt.Sprintf("%s: choose yes or no", labelOf(f))
	}
	return ""
}

// rules holds the checks of every fixed field. Fields without an entry accept
// any value. Rules only run for active fields.
var rules = map[Field]rule{
	CompanyName:       minLength(2),
	Location:          minLength(2),
	ContactName:       minLength(2),
	Email:             email,
	HasCompanion:      answered,
	CompanionName:     minLength(2),
	CompanionEmail:    email,
	HasExtraAttendees: answered,
	VacancyLevel:      required,
	WantsStand:        answered,
	StandDetails:      required,
	JoinsJobBoard:     answered,
	BringsItems:       answered,
	ItemDescription:   required,
	DataUseConsent:    answered,
}

// Validate checks every active field of r and returns the errors keyed by
// field. A nil catalog skips the reference table membership check.
func Validate(r *Record, c *Catalog) map[Field]string {
	errs := make(map[Field]string)
	for f := range Active(r) {
		if msg := check(r, c, f); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

func check(r *Record, c *Catalog, f Field) string {
	if i, ok := SlotIndex(f); ok {
		if i >= len(r.ExtraAttendeeNames) || strings.TrimSpace(r.ExtraAttendeeNames[i]) == "" {
			return fmt.Sprintf("%s is required", labelOf(f))
		}
		return ""
	}
	switch f {
	case DesiredTracks:
		if r.DesiredTracks.Len() == 0 {
			return "select at least one track."
		}
		if c != nil {
			for _, id := range r.DesiredTracks.IDs() {
				if !c.Contains(id) {
					return fmt.Sprintf("unknown track %q", id)
				}
			}
		}
		return ""
	case ExtraAttendeeCount:
		if r.ExtraAttendeeCount < 1 {
			return "enter how many extra attendees will come"
		}
		return ""
	}
	if rl, ok := rules[f]; ok {
		return rl(r, f)
	}
	return ""
}
