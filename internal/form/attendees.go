package form

import (
	"fmt"
	"strconv"
	"strings"
)

// ResizeNames regenerates the attendee name list to length n. Names at
// indices below min(len(names), n) are kept, new slots are empty and slots at
// n or above are dropped. The returned slice never aliases names.
func ResizeNames(names []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	out := make([]string, n)
	copy(out, names)
	return out
}

// ParseCount reads the attendee count as typed by the user.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotAnInteger, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	return n, nil
}
