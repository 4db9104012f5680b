package form

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Answer is a yes/no question that starts out unanswered. The zero value is
// Unanswered so a fresh Record never carries an accidental "No".
type Answer int

const (
	Unanswered Answer = iota
	Yes
	No
)

func (a Answer) String() string {
	switch a {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return ""
	}
}

func (a Answer) Answered() bool {
	return a == Yes || a == No
}

// ParseAnswer accepts the values the registration select emits ("SI", "NO",
// empty) as well as yes/no and true/false, case-insensitively.
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Unanswered, nil
	case "si", "sí", "yes", "true":
		return Yes, nil
	case "no", "false":
		return No, nil
	}
	return Unanswered, fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
}

func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAnswer(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
