package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenientCoordinates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want LatLng
	}{
		{"well formed", "45.4360, 12.3290", LatLng{45.4360, 12.3290}},
		{"no space", "45.4360,12.3290", LatLng{45.4360, 12.3290}},
		{"padded", "  45.5 ,\t12.25  ", LatLng{45.5, 12.25}},
		{"bad latitude keeps longitude", "north, 12.3", LatLng{0, 12.3}},
		{"bad longitude keeps latitude", "45.4, east", LatLng{45.4, 0}},
		{"single part", "45.4", LatLng{45.4, 0}},
		{"extra parts ignored", "45.4, 12.3, 7", LatLng{45.4, 12.3}},
		{"empty", "", LatLng{}},
		{"NaN latitude", "NaN, 12.3", LatLng{0, 12.3}},
		{"Inf longitude", "45.4, +Inf", LatLng{45.4, 0}},
		{"infinity spelled out", "-infinity, inf", LatLng{}},
		{"overflow", "1e400, 12.3", LatLng{0, 12.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LenientCoordinates(tt.in))
			assert.Equal(t, tt.want, VenueEntry{Coordinates: tt.in}.Location())
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	got, err := ParseCoordinates(" 45.4380 , 12.3355 ")
	require.NoError(t, err)
	assert.Equal(t, LatLng{45.4380, 12.3355}, got)

	for _, in := range []string{"", "45.4", "45.4, 12.3, 7", "NaN, 12.3", "45.4, Inf", "x, 12.3", "45.4, y"} {
		_, err := ParseCoordinates(in)
		assert.True(t, errors.Is(err, ErrMalformedCoordinates), "input %q", in)
	}
}

func TestVenueEntryKey(t *testing.T) {
	assert.Equal(t, "romantic1", VenueEntry{ID: "romantic1", Title: "Bar Canale"}.Key())
	assert.Equal(t, "Bar Canale", VenueEntry{Title: "Bar Canale"}.Key())
}

func TestCategoryIDValid(t *testing.T) {
	for _, c := range []CategoryID{CategoryRomantic, CategoryLocal, CategoryElegant, CategoryHidden} {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, CategoryID("authentic").Valid())
	assert.False(t, CategoryID("").Valid())
}

func TestRegionAround(t *testing.T) {
	r := RegionAround(LatLng{45.4, 12.3})
	assert.Equal(t, MapRegion{Latitude: 45.4, Longitude: 12.3, LatitudeDelta: FocusDelta, LongitudeDelta: FocusDelta}, r)
}
