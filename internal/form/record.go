package form

import (
	"strconv"
	"strings"
)

// Field names a single input of the registration form.
type Field string

const (
	CompanyName        Field = "companyName"
	Location           Field = "location"
	ContactName        Field = "contactName"
	Role               Field = "role"
	Email              Field = "email"
	Phone              Field = "phone"
	HasCompanion       Field = "hasCompanion"
	CompanionName      Field = "companionName"
	CompanionEmail     Field = "companionEmail"
	CompanionPhone     Field = "companionPhone"
	HasExtraAttendees  Field = "hasExtraAttendees"
	ExtraAttendeeCount Field = "extraAttendeeCount"
	VacancyLevel       Field = "vacancyLevel"
	DesiredTracks      Field = "desiredTracks"
	WantsStand         Field = "wantsStand"
	StandDetails       Field = "standDetails"
	JoinsJobBoard      Field = "joinsJobBoard"
	BringsItems        Field = "bringsItems"
	ItemDescription    Field = "itemDescription"
	LogoURL            Field = "logoUrl"
	Description        Field = "description"
	DataUseConsent     Field = "dataUseConsent"
)

const attendeeSlotPrefix = "extraAttendeeNames."

// AttendeeSlot returns the field name of the i-th (0-based) extra attendee name.
func AttendeeSlot(i int) Field {
	return Field(attendeeSlotPrefix + strconv.Itoa(i))
}

// SlotIndex reports whether f is an attendee name slot and, if so, its index.
func SlotIndex(f Field) (int, bool) {
	rest, ok := strings.CutPrefix(string(f), attendeeSlotPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Record is the in-progress registration. It is owned by a single Form and
// only mutated through it.
type Record struct {
	CompanyName string
	Location    string

	ContactName string
	Role        string
	Email       string
	Phone       string

	HasCompanion   Answer
	CompanionName  string
	CompanionEmail string
	CompanionPhone string

	HasExtraAttendees  Answer
	ExtraAttendeeCount int
	ExtraAttendeeNames []string

	VacancyLevel  string
	DesiredTracks TrackSet

	WantsStand   Answer
	StandDetails string

	JoinsJobBoard Answer

	BringsItems     Answer
	ItemDescription string

	LogoURL        string
	Description    string
	DataUseConsent Answer
}

// Clone returns a deep copy; the slices of the copy do not alias r.
func (r Record) Clone() Record {
	out := r
	if r.ExtraAttendeeNames != nil {
		out.ExtraAttendeeNames = append([]string(nil), r.ExtraAttendeeNames...)
	}
	out.DesiredTracks = r.DesiredTracks.clone()
	return out
}

func (r *Record) textField(f Field) (*string, bool) {
	switch f {
	case CompanyName:
		return &r.CompanyName, true
	case Location:
		return &r.Location, true
	case ContactName:
		return &r.ContactName, true
	case Role:
		return &r.Role, true
	case Email:
		return &r.Email, true
	case Phone:
		return &r.Phone, true
	case CompanionName:
		return &r.CompanionName, true
	case CompanionEmail:
		return &r.CompanionEmail, true
	case CompanionPhone:
		return &r.CompanionPhone, true
	case VacancyLevel:
		return &r.VacancyLevel, true
	case StandDetails:
		return &r.StandDetails, true
	case ItemDescription:
		return &r.ItemDescription, true
	case LogoURL:
		return &r.LogoURL, true
	case Description:
		return &r.Description, true
	}
	return nil, false
}

func (r *Record) answerField(f Field) (*Answer, bool) {
	switch f {
	case HasCompanion:
		return &r.HasCompanion, true
	case HasExtraAttendees:
		return &r.HasExtraAttendees, true
	case WantsStand:
		return &r.WantsStand, true
	case JoinsJobBoard:
		return &r.JoinsJobBoard, true
	case BringsItems:
		return &r.BringsItems, true
	case DataUseConsent:
		return &r.DataUseConsent, true
	}
	return nil, false
}

// Value renders the current value of f as the text a presentation layer shows.
func (r *Record) Value(f Field) string {
	if p, ok := r.textField(f); ok {
		return *p
	}
	if p, ok := r.answerField(f); ok {
		return p.String()
	}
	if i, ok := SlotIndex(f); ok {
		if i < len(r.ExtraAttendeeNames) {
			return r.ExtraAttendeeNames[i]
		}
		return ""
	}
	switch f {
	case ExtraAttendeeCount:
		return strconv.Itoa(r.ExtraAttendeeCount)
	case DesiredTracks:
		return r.DesiredTracks.Join()
	}
	return ""
}
