package types

// CategoryParams is the navigation payload of the category flows.
type CategoryParams struct {
	CategoryID string `json:"categoryId"`
}

// MapParams is the navigation payload that opens the map on a venue.
type MapParams struct {
	Title       string `json:"title"`
	Coordinates string `json:"coordinates"`
	AutoFocus   *bool  `json:"autoFocus,omitempty"`
	SelectedID  string `json:"selectedId,omitempty"`
}

// WantsAutoFocus reports whether the params ask the map to center itself.
func (p MapParams) WantsAutoFocus() bool {
	return p.AutoFocus != nil && *p.AutoFocus
}
