package form

import (
	"fmt"
	"strings"

	"github.com/gdg-garage/career-fair-api/internal/models"
	"github.com/google/uuid"
)

// Payload flattens a validated record into its persistence shape. Values of
// inactive groups are dropped, desired tracks are joined with commas and the
// registrant type is attached. Inconsistent records are refused rather than
// stored.
func Payload(r *Record, c *Catalog) (*models.CompanyRegistration, error) {
	for _, id := range r.DesiredTracks.IDs() {
		if c != nil && !c.Contains(id) {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidRecord, ErrUnknownTrack, id)
		}
	}
	if r.ExtraAttendeeCount < 0 || len(r.ExtraAttendeeNames) != r.ExtraAttendeeCount {
		return nil, fmt.Errorf("%w: %d attendee names for a count of %d", ErrInvalidRecord, len(r.ExtraAttendeeNames), r.ExtraAttendeeCount)
	}

	fields := models.CompanyFields{
		CompanyName:        strings.TrimSpace(r.CompanyName),
		Location:           strings.TrimSpace(r.Location),
		ContactName:        strings.TrimSpace(r.ContactName),
		Role:               strings.TrimSpace(r.Role),
		Email:              strings.TrimSpace(r.Email),
		Phone:              strings.TrimSpace(r.Phone),
		VacancyLevel:       strings.TrimSpace(r.VacancyLevel),
		Tracks:             r.DesiredTracks.Join(),
		JoinsJobBoard:      r.JoinsJobBoard == Yes,
		LogoURL:            strings.TrimSpace(r.LogoURL),
		Description:        strings.TrimSpace(r.Description),
		DataUseConsent:     r.DataUseConsent == Yes,
		ExtraAttendeeNames: []string{},
	}
	if r.HasCompanion == Yes {
		fields.HasCompanion = true
		fields.CompanionName = strings.TrimSpace(r.CompanionName)
		fields.CompanionEmail = strings.TrimSpace(r.CompanionEmail)
		fields.CompanionPhone = strings.TrimSpace(r.CompanionPhone)
	}
	if r.HasExtraAttendees == Yes {
		fields.HasExtraAttendees = true
		fields.ExtraAttendeeCount = r.ExtraAttendeeCount
		for _, n := range r.ExtraAttendeeNames {
			fields.ExtraAttendeeNames = append(fields.ExtraAttendeeNames, strings.TrimSpace(n))
		}
	}
	if r.WantsStand == Yes {
		fields.WantsStand = true
		fields.StandDetails = strings.TrimSpace(r.StandDetails)
	}
	if r.BringsItems == Yes {
		fields.BringsItems = true
		fields.ItemDescription = strings.TrimSpace(r.ItemDescription)
	}

	return &models.CompanyRegistration{
		Reference:      uuid.NewString(),
		RegistrantType: models.RegistrantCompany,
		CompanyFields:  fields,
	}, nil
}
