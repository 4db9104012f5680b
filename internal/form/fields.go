package form

import "fmt"

var labels = map[Field]string{
	CompanyName:        "Company name",
	Location:           "Location",
	ContactName:        "Contact name",
	Role:               "Role",
	Email:              "Email",
	Phone:              "Phone",
	HasCompanion:       "Will you bring a companion?",
	CompanionName:      "Companion name",
	CompanionEmail:     "Companion email",
	CompanionPhone:     "Companion phone",
	HasExtraAttendees:  "Will you bring extra attendees?",
	ExtraAttendeeCount: "How many extra attendees?",
	VacancyLevel:       "Vacancy level",
	DesiredTracks:      "Desired tracks",
	WantsStand:         "Do you need a stand?",
	StandDetails:       "Stand details",
	JoinsJobBoard:      "Is the company on the job board?",
	BringsItems:        "Will you bring promotional items?",
	ItemDescription:    "Which items?",
	LogoURL:            "Logo URL",
	Description:        "Company description",
	DataUseConsent:     "Do you authorize the use of your data?",
}

func labelOf(f Field) string {
	if i, ok := SlotIndex(f); ok {
		return fmt.Sprintf("Extra attendee #%d name", i+1)
	}
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// Kind tells the presentation layer which control renders a field.
type Kind string

const (
	KindText   Kind = "text"
	KindAnswer Kind = "answer"
	KindCount  Kind = "count"
	KindTracks Kind = "tracks"
)

func kindOf(f Field) Kind {
	switch f {
	case HasCompanion, HasExtraAttendees, WantsStand, JoinsJobBoard, BringsItems, DataUseConsent:
		return KindAnswer
	case ExtraAttendeeCount:
		return KindCount
	case DesiredTracks:
		return KindTracks
	}
	return KindText
}

// Descriptor is what the presentation layer needs to render one field.
type Descriptor struct {
	Name  Field  `json:"name"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
	Gate  Field  `json:"gate,omitempty"`
}

func describe(r *Record, f Field, errs map[Field]string) Descriptor {
	d := Descriptor{
		Name:  f,
		Label: labelOf(f),
		Kind:  kindOf(f),
		Value: r.Value(f),
		Error: errs[f],
	}
	if g, ok := gateOf(f); ok {
		d.Gate = g
	}
	return d
}
