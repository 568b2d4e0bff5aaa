package selector

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/catalog"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// stubRand returns a fixed index and records the bounds it was asked for.
type stubRand struct {
	index  int
	bounds []int
}

func (r *stubRand) IntN(n int) int {
	r.bounds = append(r.bounds, n)
	return r.index % n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSelector(c *catalog.Catalog, rng Rand) *Selector {
	return New(c, rng, metrics.Noop(), discardLogger())
}

const sparseCatalog = `
categories:
  - id: romantic
    venues:
      - {id: r1, title: First}
      - {id: r2, title: Second}
  - id: local
    venues:
      - {id: l1, title: Only}
  - id: elegant
    venues:
      - {id: e1, title: Twin}
      - {id: e2, title: Twin}
  - id: hidden
    venues: []
`

func TestPickRandom_StaysInCategory(t *testing.T) {
	c := catalog.Default()
	s := newSelector(c, rand.New(rand.NewPCG(1, 2)))

	for _, cat := range c.ListCategories() {
		for range 50 {
			v := s.PickRandom(cat)
			got, ok := c.CategoryOf(v.ID)
			require.True(t, ok)
			assert.Equal(t, cat, got)
		}
	}
}

func TestPickRandom_UniformIndex(t *testing.T) {
	c := catalog.Default()
	rng := &stubRand{index: 3}
	s := newSelector(c, rng)

	v := s.PickRandom(types.CategoryLocal)
	assert.Equal(t, "local4", v.ID)
	assert.Equal(t, []int{5}, rng.bounds)
}

func TestPickRandomExcluding_NeverReturnsExcluded(t *testing.T) {
	c := catalog.Default()
	s := newSelector(c, rand.New(rand.NewPCG(7, 7)))

	for _, cat := range c.ListCategories() {
		for _, e := range c.EntriesFor(cat) {
			for range 30 {
				got := s.PickRandomExcluding(cat, &e)
				assert.NotEqual(t, e.Title, got.Title)
			}
		}
	}
}

func TestPickRandomExcluding_FiltersBeforeDrawing(t *testing.T) {
	c := catalog.Default()
	rng := &stubRand{index: 0}
	s := newSelector(c, rng)

	first := c.EntriesFor(types.CategoryHidden)[0]
	got := s.PickRandomExcluding(types.CategoryHidden, &first)

	assert.Equal(t, "hidden2", got.ID)
	assert.Equal(t, []int{4}, rng.bounds)
}

func TestPickRandomExcluding_Singleton(t *testing.T) {
	c, err := catalog.Load([]byte(sparseCatalog))
	require.NoError(t, err)
	s := newSelector(c, &stubRand{})

	only := c.EntriesFor(types.CategoryLocal)[0]
	assert.Equal(t, only, s.PickRandomExcluding(types.CategoryLocal, &only))
}

func TestPickRandomExcluding_AllTitlesExcluded(t *testing.T) {
	c, err := catalog.Load([]byte(sparseCatalog))
	require.NoError(t, err)
	rng := &stubRand{index: 1}
	s := newSelector(c, rng)

	got := s.PickRandomExcluding(types.CategoryElegant, &types.VenueEntry{Title: "Twin"})
	assert.Equal(t, "e2", got.ID)
	assert.Equal(t, []int{2}, rng.bounds)
}

func TestPickRandom_EmptyOrUnknownFallsBack(t *testing.T) {
	c, err := catalog.Load([]byte(sparseCatalog))
	require.NoError(t, err)
	rng := &stubRand{index: 1}
	s := newSelector(c, rng)

	assert.Equal(t, "r1", s.PickRandom(types.CategoryHidden).ID)
	assert.Equal(t, "r1", s.PickRandom("nightclubs").ID)
	assert.Equal(t, "r1", s.PickRandomExcluding("", &types.VenueEntry{Title: "First"}).ID)
	assert.Empty(t, rng.bounds, "fallback is not random")
}

func TestPickRandom_ResolvesAliases(t *testing.T) {
	c := catalog.Default()
	s := newSelector(c, &stubRand{})

	v := s.PickRandom("authentic")
	assert.Equal(t, "local1", v.ID)
}

func TestHandler_Pick(t *testing.T) {
	c := catalog.Default()
	h := NewHandlerImpl(newSelector(c, &stubRand{index: 0}), discardLogger())
	r := chi.NewRouter()
	r.Get("/categories/{categoryID}/pick", h.Pick)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/romantic/pick?exclude=Bar+Canale", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PickResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.CategoryRomantic, resp.Category)
	assert.Equal(t, "romantic2", resp.Venue.ID)
	assert.Equal(t, "assets/image_romantic2.png", resp.Venue.Image)
}
