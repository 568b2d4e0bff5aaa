package saved

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/catalog"
	"github.com/FACorreiaa/go-vinebar-venice/internal/kvstore"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// slowStore widens the read-modify-write window.
type slowStore struct {
	*kvstore.MemoryStore
}

func (s slowStore) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(time.Millisecond)
	return s.MemoryStore.Get(ctx, key)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(store kvstore.Store) *ServiceImpl {
	return NewServiceImpl(store, metrics.Noop(), discardLogger())
}

func venue(id string) types.VenueEntry {
	v, ok := catalog.Default().FindByID(id)
	if !ok {
		panic("no venue " + id)
	}
	return v
}

func TestService_EmptyOnFirstAccess(t *testing.T) {
	s := newService(kvstore.NewMemoryStore())
	list := s.List(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestService_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	s := newService(store)
	a := venue("romantic1")

	assert.True(t, s.Add(ctx, a))
	assert.True(t, s.Add(ctx, a))

	list := s.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "romantic1", list[0].ID)

	assert.False(t, s.Remove(ctx, a))
	assert.Empty(t, s.List(ctx))
	assert.False(t, s.Remove(ctx, a), "removing an absent entry still succeeds")

	raw, err := store.Get(ctx, kvstore.KeySavedPlaces)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestService_ToggleIsAnInvolution(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	s := newService(store)
	s.Add(ctx, venue("local1"))
	s.Add(ctx, venue("hidden3"))

	before, err := store.Get(ctx, kvstore.KeySavedPlaces)
	require.NoError(t, err)

	for _, id := range []string{"elegant2", "local1"} {
		v := venue(id)
		was := s.Contains(ctx, v)
		assert.Equal(t, !was, s.Toggle(ctx, v))
		assert.Equal(t, was, s.Toggle(ctx, v))
		assert.Equal(t, was, s.Contains(ctx, v))
	}

	after, err := store.Get(ctx, kvstore.KeySavedPlaces)
	require.NoError(t, err)
	var b, a []types.VenueEntry
	require.NoError(t, json.Unmarshal(before, &b))
	require.NoError(t, json.Unmarshal(after, &a))
	assert.ElementsMatch(t, b, a)
}

func TestService_KeysByIDNotTitle(t *testing.T) {
	ctx := context.Background()
	s := newService(kvstore.NewMemoryStore())

	// same title, different venues
	s.Add(ctx, venue("romantic1"))
	s.Add(ctx, venue("elegant3"))

	assert.Len(t, s.List(ctx), 2)
	assert.True(t, s.Contains(ctx, types.VenueEntry{ID: "elegant3"}))
	assert.False(t, s.Contains(ctx, types.VenueEntry{Title: "Bar Canale"}))
}

func TestService_LegacySnapshots(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	legacy := `[
		{"title":"Do Mori","description":"d","coordinates":"45.4380, 12.3355","address":"a","imageName":"image_local3.png"},
		{"title":"Do Mori","description":"dup","coordinates":"","address":"","imageName":""}
	]`
	require.NoError(t, store.Set(ctx, kvstore.KeySavedPlaces, []byte(legacy)))
	s := newService(store)

	list := s.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "d", list[0].Description)

	assert.False(t, s.Toggle(ctx, types.VenueEntry{Title: "Do Mori"}))
	assert.Empty(t, s.List(ctx))
}

func TestService_ListRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	s := newService(store)

	want := []types.VenueEntry{venue("hidden5"), venue("romantic3"), venue("elegant1")}
	for _, v := range want {
		s.Add(ctx, v)
	}

	// a fresh service over the same store sees the same set
	got := newService(store).List(ctx)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("saved list mismatch (-want +got):\n%s", diff)
	}
}

func TestService_ReadFailureDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	failure := fmt.Errorf("reading: %w", types.ErrStorageUnavailable)
	store.On("Get", mock.Anything, kvstore.KeySavedPlaces).Return(nil, failure)
	s := newService(store)

	assert.Empty(t, s.List(ctx))
	assert.False(t, s.Contains(ctx, venue("local2")))
	assert.False(t, s.Toggle(ctx, venue("local2")))
	assert.False(t, s.Add(ctx, venue("local2")))

	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CorruptValueDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kvstore.KeySavedPlaces, []byte(`{not json`)))
	s := newService(store)

	assert.Empty(t, s.List(ctx))
}

func TestService_CorruptValueIsOverwritten(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kvstore.KeySavedPlaces, []byte(`{not json`)))
	s := newService(store)

	assert.True(t, s.Toggle(ctx, venue("elegant2")))
	assert.True(t, s.Contains(ctx, venue("elegant2")))

	var stored []types.VenueEntry
	require.NoError(t, kvstore.GetJSON(ctx, store, kvstore.KeySavedPlaces, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "elegant2", stored[0].ID)

	assert.False(t, s.Toggle(ctx, venue("elegant2")))
	assert.Empty(t, s.List(ctx))
}

func TestService_WriteFailureKeepsPersistedState(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	existing, err := json.Marshal([]types.VenueEntry{venue("local2")})
	require.NoError(t, err)
	store.On("Get", mock.Anything, kvstore.KeySavedPlaces).Return(existing, nil)
	store.On("Set", mock.Anything, kvstore.KeySavedPlaces, mock.Anything).
		Return(errors.New("disk full"))
	s := newService(store)

	assert.True(t, s.Toggle(ctx, venue("local2")), "still saved on disk")
	assert.False(t, s.Toggle(ctx, venue("local4")), "still absent on disk")
	assert.True(t, s.Remove(ctx, venue("local2")))

	store.AssertNumberOfCalls(t, "Set", 3)
}

func TestService_NoopMutationsDoNotWrite(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	existing, err := json.Marshal([]types.VenueEntry{venue("local2")})
	require.NoError(t, err)
	store.On("Get", mock.Anything, kvstore.KeySavedPlaces).Return(existing, nil)
	s := newService(store)

	assert.True(t, s.Add(ctx, venue("local2")))
	assert.False(t, s.Remove(ctx, venue("local5")))

	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ConcurrentTogglesSerialize(t *testing.T) {
	ctx := context.Background()
	store := slowStore{kvstore.NewMemoryStore()}
	s := newService(store)
	ids := []string{"romantic1", "local1", "elegant1", "hidden1"}

	// each venue is toggled three times: it must end up saved
	var wg sync.WaitGroup
	for range 3 {
		for _, id := range ids {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Toggle(ctx, venue(id))
			}()
		}
	}
	wg.Wait()

	list := s.List(ctx)
	assert.Len(t, list, len(ids))
	for _, id := range ids {
		assert.True(t, s.Contains(ctx, types.VenueEntry{ID: id}), id)
	}
}

func TestService_CanceledContextAbandonsUpdate(t *testing.T) {
	store := kvstore.NewMemoryStore()
	s := newService(store)
	require.True(t, s.Add(context.Background(), venue("local1")))

	// hold the queue so the next caller has to wait
	require.NoError(t, s.queue.Acquire(context.Background(), 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, s.Add(ctx, venue("hidden2")))
	assert.True(t, s.Toggle(ctx, venue("local1")), "abandoned toggle reports stored membership")
	assert.True(t, s.Remove(ctx, venue("local1")))
	s.queue.Release(1)

	list := s.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "local1", list[0].ID)
}

func newTestRouter(s Service) http.Handler {
	c := catalog.NewServiceImpl(catalog.Default(), discardLogger())
	h := NewHandlerImpl(s, c, discardLogger())
	r := chi.NewRouter()
	r.Get("/saved", h.ListSaved)
	r.Get("/saved/{venueID}", h.GetSaved)
	r.Put("/saved/{venueID}", h.AddSaved)
	r.Delete("/saved/{venueID}", h.RemoveSaved)
	r.Post("/saved/{venueID}/toggle", h.ToggleSaved)
	return r
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHandler_Flow(t *testing.T) {
	router := newTestRouter(newService(kvstore.NewMemoryStore()))

	rec := do(t, router, http.MethodPut, "/saved/romantic1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"romantic1","saved":true}`, rec.Body.String())

	rec = do(t, router, http.MethodPut, "/saved/romantic1")
	assert.JSONEq(t, `{"id":"romantic1","saved":true}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/saved/local3/toggle")
	assert.JSONEq(t, `{"id":"local3","saved":true}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/saved")
	require.Equal(t, http.StatusOK, rec.Code)
	var cards []catalog.VenueCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "romantic1", cards[0].ID)
	assert.Equal(t, "assets/image_local3.png", cards[1].Image)

	rec = do(t, router, http.MethodDelete, "/saved/romantic1")
	assert.JSONEq(t, `{"id":"romantic1","saved":false}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/saved/romantic1")
	assert.JSONEq(t, `{"id":"romantic1","saved":false}`, rec.Body.String())
}

func TestHandler_UnknownVenue(t *testing.T) {
	router := newTestRouter(newService(kvstore.NewMemoryStore()))

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPut, "/saved/nope").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/saved/nope/toggle").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, "/saved/nope").Code)
}
