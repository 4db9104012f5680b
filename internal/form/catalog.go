package form

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

//go:embed tracks.json
var defaultTracks []byte

// Track is one selectable academic track of the reference table.
type Track struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog is the immutable reference table of academic tracks.
type Catalog struct {
	tracks []Track
	byID   map[string]int
}

func NewCatalog(tracks []Track) (*Catalog, error) {
	c := &Catalog{
		tracks: make([]Track, 0, len(tracks)),
		byID:   make(map[string]int, len(tracks)),
	}
	for _, t := range tracks {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, fmt.Errorf("track %q has an empty id", t.Name)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate track id %q", id)
		}
		c.byID[id] = len(c.tracks)
		c.tracks = append(c.tracks, Track{ID: id, Name: t.Name})
	}
	if len(c.tracks) == 0 {
		return nil, fmt.Errorf("reference table has no tracks")
	}
	return c, nil
}

// LoadCatalog parses a reference table of the form
// {"tracks":[{"id":"...","name":"..."}]}.
func LoadCatalog(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("reference table is not valid JSON")
	}
	list := gjson.GetBytes(data, "tracks")
	if !list.IsArray() {
		return nil, fmt.Errorf("reference table has no tracks array")
	}
	var tracks []Track
	list.ForEach(func(_, item gjson.Result) bool {
		tracks = append(tracks, Track{
			ID:   item.Get("id").String(),
			Name: item.Get("name").String(),
		})
		return true
	})
	return NewCatalog(tracks)
}

// LoadCatalogFile reads the reference table from path, falling back to the
// embedded table when path is empty.
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference table: %w", err)
	}
	return LoadCatalog(data)
}

func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(defaultTracks)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Label resolves id to its display name. Unknown ids resolve to themselves.
func (c *Catalog) Label(id string) string {
	if c == nil {
		return id
	}
	if i, ok := c.byID[id]; ok {
		return c.tracks[i].Name
	}
	return id
}

// Tracks returns the table in its original order.
func (c *Catalog) Tracks() []Track {
	return append([]Track(nil), c.tracks...)
}
