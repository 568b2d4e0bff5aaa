package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CategoryID identifies one of the curated venue categories.
type CategoryID string

const (
	CategoryRomantic CategoryID = "romantic"
	CategoryLocal    CategoryID = "local"
	CategoryElegant  CategoryID = "elegant"
	CategoryHidden   CategoryID = "hidden"

	// DefaultCategory is served whenever a category id cannot be resolved.
	DefaultCategory = CategoryRomantic
)

// Valid reports whether c is one of the four known categories.
func (c CategoryID) Valid() bool {
	switch c {
	case CategoryRomantic, CategoryLocal, CategoryElegant, CategoryHidden:
		return true
	}
	return false
}

// Category is a catalog category with its picker label.
type Category struct {
	ID    CategoryID `json:"id"`
	Label string     `json:"label"`
}

// VenueEntry is one physical bar as bundled with the app. The JSON shape is
// the persisted snapshot format of the saved list.
type VenueEntry struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Coordinates string `json:"coordinates" yaml:"coordinates"`
	Address     string `json:"address" yaml:"address"`
	ImageName   string `json:"imageName" yaml:"imageName"`
}

// Key is the saved-set uniqueness key: the id, or the title for legacy
// snapshots persisted without one.
func (v VenueEntry) Key() string {
	if v.ID != "" {
		return v.ID
	}
	return v.Title
}

// LatLng is a parsed geographic point.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location parses the entry coordinates, degrading to (0,0) per component.
func (v VenueEntry) Location() LatLng {
	return LenientCoordinates(v.Coordinates)
}

// ParseCoordinates parses a "lat, lon" string strictly. NaN and infinite
// components are rejected.
func ParseCoordinates(s string) (LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return LatLng{}, fmt.Errorf("%w: %q", ErrMalformedCoordinates, s)
	}
	lat, err := parseComponent(parts[0])
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: latitude %q", ErrMalformedCoordinates, parts[0])
	}
	lon, err := parseComponent(parts[1])
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: longitude %q", ErrMalformedCoordinates, parts[1])
	}
	return LatLng{Latitude: lat, Longitude: lon}, nil
}

// LenientCoordinates never fails: each unparsable component becomes 0.
func LenientCoordinates(s string) LatLng {
	parts := strings.Split(s, ",")
	var out LatLng
	if len(parts) > 0 {
		out.Latitude = parseOrZero(parts[0])
	}
	if len(parts) > 1 {
		out.Longitude = parseOrZero(parts[1])
	}
	return out
}

func parseComponent(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}

func parseOrZero(s string) float64 {
	f, err := parseComponent(s)
	if err != nil {
		return 0
	}
	return f
}
