package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeNames(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		n     int
		want  []string
	}{
		{"grow keeps prefix", []string{"Ana", "Luis"}, 3, []string{"Ana", "Luis", ""}},
		{"shrink truncates", []string{"Ana", "Luis", ""}, 1, []string{"Ana"}},
		{"zero empties", []string{"Ana"}, 0, []string{}},
		{"from nothing", nil, 2, []string{"", ""}},
		{"same length", []string{"Ana", "Luis"}, 2, []string{"Ana", "Luis"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResizeNames(tt.names, tt.n)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, tt.n)
		})
	}
}

func TestResizeNames_DoesNotAlias(t *testing.T) {
	names := []string{"Ana", "Luis"}
	got := ResizeNames(names, 2)
	got[0] = "Rosa"
	assert.Equal(t, "Ana", names[0])
}

func TestResizeNames_PreservesPrefixForEveryCount(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	for n := 0; n <= 8; n++ {
		got := ResizeNames(names, n)
		require.Len(t, got, n)
		for i := 0; i < n && i < len(names); i++ {
			assert.Equal(t, names[i], got[i])
		}
		for i := len(names); i < n; i++ {
			assert.Empty(t, got[i])
		}
	}
}

func TestParseCount(t *testing.T) {
	n, err := ParseCount(" 4 ")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = ParseCount("")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = ParseCount("-2")
	assert.ErrorIs(t, err, ErrNegativeCount)
	_, err = ParseCount("two")
	assert.ErrorIs(t, err, ErrNotAnInteger)
	_, err = ParseCount("1.5")
	assert.ErrorIs(t, err, ErrNotAnInteger)
}

func TestTrackSet_AddIsIdempotent(t *testing.T) {
	var s TrackSet
	assert.True(t, s.Add("ing-civil"))
	assert.True(t, s.Add("lic-mercadotecnia"))
	assert.False(t, s.Add("ing-civil"))

	assert.Equal(t, []string{"ing-civil", "lic-mercadotecnia"}, s.IDs())
	assert.Equal(t, "ing-civil,lic-mercadotecnia", s.Join())
}

func TestTrackSet_RemoveThenAddMovesToEnd(t *testing.T) {
	var s TrackSet
	s.Add("ing-civil")
	s.Add("lic-mercadotecnia")
	s.Add("arquitectura")

	assert.True(t, s.Remove("ing-civil"))
	assert.False(t, s.Remove("ing-civil"))
	s.Add("ing-civil")

	assert.Equal(t, []string{"lic-mercadotecnia", "arquitectura", "ing-civil"}, s.IDs())
}

func TestTrackSet_InsertionOrderNotCatalogOrder(t *testing.T) {
	var s TrackSet
	s.Add("lic-mercadotecnia")
	s.Add("ing-civil")

	labels := s.Labels(DefaultCatalog())
	require.Len(t, labels, 2)
	assert.Equal(t, "Licenciatura en Mercadotecnia", labels[0].Name)
	assert.Equal(t, "Ingeniería Civil", labels[1].Name)
}

func TestTrackSet_CloneIsIndependent(t *testing.T) {
	r := Record{}
	r.DesiredTracks.Add("ing-civil")
	r.DesiredTracks.Add("arquitectura")
	c := r.Clone()

	r.DesiredTracks.Remove("ing-civil")
	r.DesiredTracks.Add("lic-derecho")

	assert.Equal(t, []string{"ing-civil", "arquitectura"}, c.DesiredTracks.IDs())
}
