package form

import "strings"

// TrackSet is an insertion-ordered set of track ids.
type TrackSet struct {
	ids []string
}

// Add appends id unless it is already present. It reports whether the set changed.
func (s *TrackSet) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id if present. It reports whether the set changed.
func (s *TrackSet) Remove(id string) bool {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (s TrackSet) Contains(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s TrackSet) Len() int { return len(s.ids) }

// IDs returns a copy of the ids in insertion order.
func (s TrackSet) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Join flattens the set into its stored form.
func (s TrackSet) Join() string {
	return strings.Join(s.ids, ",")
}

// Labels resolves every id against the catalog, keeping insertion order.
func (s TrackSet) Labels(c *Catalog) []Track {
	out := make([]Track, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, Track{ID: id, Name: c.Label(id)})
	}
	return out
}

func (s TrackSet) clone() TrackSet {
	if s.ids == nil {
		return TrackSet{}
	}
	return TrackSet{ids: append([]string(nil), s.ids...)}
}
