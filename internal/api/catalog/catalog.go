// Package catalog holds the bundled venue table. It is decoded once at start
// and never mutated afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

// AssetDir is where bundled venue images live.
const AssetDir = "assets"

type document struct {
	City             string        `yaml:"city"`
	PlaceholderImage string        `yaml:"placeholderImage"`
	Categories       []categoryDoc `yaml:"categories"`
}

type categoryDoc struct {
	ID      types.CategoryID   `yaml:"id"`
	Label   string             `yaml:"label"`
	Aliases []string           `yaml:"aliases"`
	Venues  []types.VenueEntry `yaml:"venues"`
}

// Catalog is the immutable category -> ordered venues table.
type Catalog struct {
	city        string
	placeholder string
	order       []types.CategoryID
	labels      map[types.CategoryID]string
	entries     map[types.CategoryID][]types.VenueEntry
	aliases     map[string]types.CategoryID
	byID        map[string]types.VenueEntry
	categoryOf  map[string]types.CategoryID
	images      map[string]struct{}
}

var defaultCatalog = MustLoad(embeddedCatalog)

// Default returns the catalog bundled with the binary.
func Default() *Catalog {
	return defaultCatalog
}

// MustLoad is Load that panics; used for the embedded document.
func MustLoad(raw []byte) *Catalog {
	c, err := Load(raw)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Load decodes and validates a catalog document.
func Load(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	c := &Catalog{
		city:        doc.City,
		placeholder: doc.PlaceholderImage,
		labels:      make(map[types.CategoryID]string),
		entries:     make(map[types.CategoryID][]types.VenueEntry),
		aliases:     make(map[string]types.CategoryID),
		byID:        make(map[string]types.VenueEntry),
		categoryOf:  make(map[string]types.CategoryID),
		images:      make(map[string]struct{}),
	}

	for _, cat := range doc.Categories {
		if !cat.ID.Valid() {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownCategory, cat.ID)
		}
		if _, dup := c.entries[cat.ID]; dup {
			return nil, fmt.Errorf("category %q declared twice", cat.ID)
		}
		c.order = append(c.order, cat.ID)
		c.labels[cat.ID] = cat.Label
		c.aliases[strings.ToLower(string(cat.ID))] = cat.ID
		c.aliases[strings.ToLower(cat.Label)] = cat.ID
		for _, a := range cat.Aliases {
			c.aliases[strings.ToLower(strings.TrimSpace(a))] = cat.ID
		}

		venues := make([]types.VenueEntry, 0, len(cat.Venues))
		for _, v := range cat.Venues {
			if v.ID == "" {
				return nil, fmt.Errorf("venue %q in %q has no id", v.Title, cat.ID)
			}
			if prev, dup := c.categoryOf[v.ID]; dup {
				return nil, fmt.Errorf("venue id %q used in %q and %q", v.ID, prev, cat.ID)
			}
			if v.Coordinates != "" {
				if _, err := types.ParseCoordinates(v.Coordinates); err != nil {
					return nil, fmt.Errorf("venue %q: %w", v.ID, err)
				}
			}
			c.byID[v.ID] = v
			c.categoryOf[v.ID] = cat.ID
			if v.ImageName != "" {
				c.images[v.ImageName] = struct{}{}
			}
			venues = append(venues, v)
		}
		c.entries[cat.ID] = venues
	}

	if _, ok := c.entries[types.DefaultCategory]; !ok {
		return nil, fmt.Errorf("default category %q missing", types.DefaultCategory)
	}
	return c, nil
}

// City is the city the catalog covers.
func (c *Catalog) City() string {
	return c.city
}

// ListCategories returns the category ids in declaration order.
func (c *Catalog) ListCategories() []types.CategoryID {
	out := make([]types.CategoryID, len(c.order))
	copy(out, c.order)
	return out
}

// Categories returns the categories with their picker labels.
func (c *Catalog) Categories() []types.Category {
	out := make([]types.Category, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, types.Category{ID: id, Label: c.labels[id]})
	}
	return out
}

// ResolveCategory maps an id, label or alias (any case) to a category.
func (c *Catalog) ResolveCategory(raw string) (types.CategoryID, bool) {
	id, ok := c.aliases[strings.ToLower(strings.TrimSpace(raw))]
	return id, ok
}

// Lookup returns the entries of a category, or ErrUnknownCategory.
func (c *Catalog) Lookup(category types.CategoryID) ([]types.VenueEntry, error) {
	entries, ok := c.entries[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownCategory, category)
	}
	return clone(entries), nil
}

// EntriesFor returns the entries of a category. Unknown ids fall back to the
// default category instead of failing.
func (c *Catalog) EntriesFor(category types.CategoryID) []types.VenueEntry {
	if entries, ok := c.entries[category]; ok {
		return clone(entries)
	}
	if id, ok := c.ResolveCategory(string(category)); ok {
		return clone(c.entries[id])
	}
	return clone(c.entries[types.DefaultCategory])
}

// FindByTitle returns the first entry with the given title, in category order.
func (c *Catalog) FindByTitle(title string) (types.VenueEntry, bool) {
	for _, id := range c.order {
		for _, v := range c.entries[id] {
			if v.Title == title {
				return v, true
			}
		}
	}
	return types.VenueEntry{}, false
}

// FindByID returns the entry with the given id.
func (c *Catalog) FindByID(id string) (types.VenueEntry, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// CategoryOf returns the category an entry was declared in.
func (c *Catalog) CategoryOf(id string) (types.CategoryID, bool) {
	cat, ok := c.categoryOf[id]
	return cat, ok
}

// All returns every entry in category order.
func (c *Catalog) All() []types.VenueEntry {
	out := make([]types.VenueEntry, 0, len(c.byID))
	for _, id := range c.order {
		out = append(out, c.entries[id]...)
	}
	return out
}

// ImagePath resolves an image asset key to its bundled path. Unknown keys get
// the placeholder image.
func (c *Catalog) ImagePath(asset string) string {
	if _, ok := c.images[asset]; ok {
		return path.Join(AssetDir, asset)
	}
	return path.Join(AssetDir, c.placeholder)
}

func clone(in []types.VenueEntry) []types.VenueEntry {
	out := make([]types.VenueEntry, len(in))
	copy(out, in)
	return out
}
