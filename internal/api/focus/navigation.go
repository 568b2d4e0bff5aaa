package focus

import (
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/catalog"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// MapParamsFor is the payload of a "set route" action on a venue card.
func MapParamsFor(v types.VenueEntry, autoFocus bool) types.MapParams {
	return types.MapParams{
		Title:       v.Title,
		Coordinates: v.Coordinates,
		AutoFocus:   &autoFocus,
		SelectedID:  v.ID,
	}
}

// RequestFromParams turns map navigation params into a FocusRequest. The
// venue is resolved by selectedId, then by title; if neither is in the
// catalog a bare entry is built from the params. Params naming no venue
// produce no request.
func RequestFromParams(c *catalog.Catalog, p types.MapParams) (types.FocusRequest, bool) {
	if p.Title == "" && p.SelectedID == "" {
		return types.FocusRequest{}, false
	}

	v, ok := c.FindByID(p.SelectedID)
	if !ok {
		v, ok = c.FindByTitle(p.Title)
	}
	if !ok {
		v = types.VenueEntry{ID: p.SelectedID, Title: p.Title, Coordinates: p.Coordinates}
	}

	autoFocus := p.WantsAutoFocus()
	return NewRequest(v, autoFocus, autoFocus || p.SelectedID != ""), true
}
