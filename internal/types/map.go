package types

import "github.com/google/uuid"

// FocusDelta is the zoom used when the camera centers on a single venue.
const FocusDelta = 0.02

// MapRegion is the visible map area, persisted between sessions.
type MapRegion struct {
	Latitude       float64 `json:"latitude" mapstructure:"latitude"`
	Longitude      float64 `json:"longitude" mapstructure:"longitude"`
	LatitudeDelta  float64 `json:"latitudeDelta" mapstructure:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta" mapstructure:"longitudeDelta"`
}

// DefaultMapRegion frames central Venice.
var DefaultMapRegion = MapRegion{
	Latitude:       45.4342,
	Longitude:      12.3389,
	LatitudeDelta:  0.02,
	LongitudeDelta: 0.02,
}

// RegionAround returns the focus camera for a point.
func RegionAround(p LatLng) MapRegion {
	return MapRegion{
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		LatitudeDelta:  FocusDelta,
		LongitudeDelta: FocusDelta,
	}
}

// FocusRequest asks the map to center on and highlight a venue. It is never
// persisted and is consumed exactly once.
type FocusRequest struct {
	ID               uuid.UUID  `json:"id"`
	Venue            VenueEntry `json:"venue"`
	ShouldAutoCenter bool       `json:"shouldAutoCenter"`
	ShouldHighlight  bool       `json:"shouldHighlight"`
}
