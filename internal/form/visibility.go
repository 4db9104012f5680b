package form

// gates maps every gating answer to the fields it reveals when it is Yes.
// Attendee name slots are resolved separately since their number varies.
var gates = map[Field][]Field{
	HasCompanion:      {CompanionName, CompanionEmail, CompanionPhone},
	HasExtraAttendees: {ExtraAttendeeCount},
	WantsStand:        {StandDetails},
	BringsItems:       {ItemDescription},
}

// baseFields are always active, in display order.
var baseFields = []Field{
	CompanyName, Location,
	ContactName, Role, Email, Phone,
	HasCompanion,
	HasExtraAttendees,
	VacancyLevel, DesiredTracks,
	WantsStand, JoinsJobBoard, BringsItems,
	LogoURL, Description, DataUseConsent,
}

func gateOf(f Field) (Field, bool) {
	if _, ok := SlotIndex(f); ok {
		return HasExtraAttendees, true
	}
	for g, deps := range gates {
		for _, d := range deps {
			if d == f {
				return g, true
			}
		}
	}
	return "", false
}

// Visibility is the set of fields active for a record snapshot.
type Visibility map[Field]bool

// Active computes which fields are rendered and validated for r. It depends on
// nothing but r.
func Active(r *Record) Visibility {
	v := make(Visibility, len(baseFields)+8)
	for _, f := range baseFields {
		v[f] = true
	}
	gate := func(g Field) bool {
		a, _ := r.answerField(g)
		return *a == Yes
	}
	for g, deps := range gates {
		if !gate(g) {
			continue
		}
		for _, d := range deps {
			v[d] = true
		}
	}
	if gate(HasExtraAttendees) {
		for i := range r.ExtraAttendeeNames {
			v[AttendeeSlot(i)] = true
		}
	}
	return v
}

// IsActive reports whether f is active for r.
func IsActive(r *Record, f Field) bool {
	return Active(r)[f]
}

// Deactivated lists the fields active in before that are no longer active in
// after. Their errors have to be cleared even though their values stay.
func Deactivated(before, after Visibility) []Field {
	var out []Field
	for f := range before {
		if !after[f] {
			out = append(out, f)
		}
	}
	return out
}

// Ordered lists the active fields of r in display order, gated fields placed
// right after their gate and attendee slots after the count.
func Ordered(r *Record) []Field {
	v := Active(r)
	out := make([]Field, 0, len(v))
	for _, f := range baseFields {
		out = append(out, f)
		for _, d := range gates[f] {
			if v[d] {
				out = append(out, d)
			}
		}
		if f == HasExtraAttendees && v[ExtraAttendeeCount] {
			for i := range r.ExtraAttendeeNames {
				out = append(out, AttendeeSlot(i))
			}
		}
	}
	return out
}
