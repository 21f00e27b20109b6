package favorites

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"catalog-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	slots   map[string][]byte
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{slots: map[string][]byte{}}
}

func (m *memoryStorage) Load(_ context.Context, slot string) ([]byte, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.slots[slot], nil
}

func (m *memoryStorage) Save(_ context.Context, slot string, blob []byte) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.slots[slot] = blob
	return nil
}

func summary(id int64, name string) models.FavoriteSummary {
	return models.FavoriteSummary{
		ID:       models.ProductIDFromInt(id),
		Name:     name,
		Price:    100,
		Currency: "TRY",
	}
}

func assertInvariant(t *testing.T, s State) {
	t.Helper()
	for key := range s.Entities {
		assert.True(t, s.Items[key], "entity %s without true flag", key)
	}
	for key, flag := range s.Items {
		if flag {
			_, ok := s.Entities[key]
			assert.True(t, ok, "flag %s without entity", key)
		}
	}
}

func TestToggleRoundTrip(t *testing.T) {
	initial := Empty()

	on := initial.Toggle(summary(1, "Test Product"))
	assert.True(t, on.Items["1"])
	assert.Equal(t, "Test Product", on.Entities["1"].Name)
	assertInvariant(t, on)

	off := on.Toggle(summary(1, "Test Product"))
	assert.Equal(t, initial, off)
	assertInvariant(t, off)

	// the earlier state value is untouched
	assert.True(t, on.IsFavorite(models.ProductIDFromInt(1)))
}

func TestToggleOverwritesStaleSummary(t *testing.T) {
	s := State{Items: map[string]bool{"1": false}, Entities: map[string]models.FavoriteSummary{}}
	s = s.Toggle(summary(1, "fresh"))
	assert.Equal(t, "fresh", s.Entities["1"].Name)
}

func TestStringAndNumericIDsShareKey(t *testing.T) {
	s := Empty().Toggle(summary(7, "a"))
	assert.True(t, s.IsFavorite(models.ProductID("7")))

	s = s.Toggle(models.FavoriteSummary{ID: models.ProductID("7")})
	assert.Equal(t, 0, s.Len())
}

func TestRemove(t *testing.T) {
	s := Empty().Toggle(summary(1, "a")).Toggle(summary(2, "b"))
	s = s.Remove(models.ProductIDFromInt(1)).Remove(models.ProductIDFromInt(99))

	assert.False(t, s.IsFavorite(models.ProductIDFromInt(1)))
	assert.True(t, s.IsFavorite(models.ProductIDFromInt(2)))
	assertInvariant(t, s)
}

func TestHydrateReplacesWholesale(t *testing.T) {
	store := NewStore()
	store.Toggle(summary(1, "old"))

	store.Hydrate(State{
		Items:    map[string]bool{"2": true},
		Entities: map[string]models.FavoriteSummary{"2": summary(2, "persisted")},
	})

	assert.False(t, store.IsFavorite(models.ProductIDFromInt(1)))
	assert.True(t, store.IsFavorite(models.ProductIDFromInt(2)))
	assert.Equal(t, []models.FavoriteSummary{summary(2, "persisted")}, store.Summaries())
}

func TestHydrateDropsInconsistentKeys(t *testing.T) {
	s := Empty().Hydrate(State{
		Items: map[string]bool{"1": true, "2": false, "3": true},
		Entities: map[string]models.FavoriteSummary{
			"1": summary(1, "ok"),
			"2": summary(2, "flag false"),
			"4": summary(4, "no flag"),
		},
	})

	assert.Equal(t, map[string]bool{"1": true}, s.Items)
	assert.Len(t, s.Entities, 1)
	assertInvariant(t, s)
}

func TestInvariantOverRandomSequence(t *testing.T) {
	s := Empty()
	for i := 0; i < 200; i++ {
		id := int64(i*7%5 + 1)
		switch i % 4 {
		case 3:
			s = s.Remove(models.ProductIDFromInt(id))
		default:
			s = s.Toggle(summary(id, fmt.Sprintf("p%d", id)))
		}
		assertInvariant(t, s)
	}
}

func TestDecodeState(t *testing.T) {
	state, ok := DecodeState([]byte(`{"items": {"1": true}}`))
	require.True(t, ok)
	assert.Equal(t, map[string]bool{"1": true}, state.Items)
	assert.NotNil(t, state.Entities)

	for _, blob := range []string{"", "not json", "[]", `"text"`, "null", `{"items": []}`} {
		_, ok := DecodeState([]byte(blob))
		assert.False(t, ok, blob)
	}
}

func TestEncodeDecodeKeepsSummaries(t *testing.T) {
	original := Empty().Toggle(summary(3, "kept"))
	blob, err := EncodeState(original)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"entities"`)

	decoded, ok := DecodeState(blob)
	require.True(t, ok)
	assert.Equal(t, original, decoded)
}

func TestSessionHydratesOnceBeforeFirstToggle(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	persisted, err := EncodeState(Empty().Toggle(summary(1, "persisted")))
	require.NoError(t, err)
	storage.slots["favorites"] = persisted

	session := NewSession(storage, "favorites", nil)
	assert.False(t, session.Hydrated())

	isFavorite, err := session.Toggle(ctx, summary(2, "new"))
	require.NoError(t, err)
	assert.True(t, isFavorite)
	assert.True(t, session.Hydrated())

	assert.True(t, session.IsFavorite(ctx, models.ProductIDFromInt(1)))
	assert.True(t, session.IsFavorite(ctx, models.ProductIDFromInt(2)))
	assert.Equal(t, 1, storage.loads)
	assert.Equal(t, 1, storage.saves)

	saved, ok := DecodeState(storage.slots["favorites"])
	require.True(t, ok)
	assert.Equal(t, 2, saved.Len())

	loaded, err := session.Hydrate(ctx)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, 1, storage.loads)
}

func TestSessionMalformedBlobStartsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	storage.slots["favorites"] = []byte("{broken")

	session := NewSession(storage, "favorites", nil)
	loaded, err := session.Hydrate(ctx)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.True(t, session.Hydrated())
	assert.Empty(t, session.Summaries(ctx))
	assert.Equal(t, 0, storage.saves)
}

func TestSessionLoadErrorKeepsPersistedState(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	persisted, err := EncodeState(Empty().
		Toggle(summary(1, "a")).
		Toggle(summary(2, "b")).
		Toggle(summary(3, "c")))
	require.NoError(t, err)
	storage.slots["favorites"] = persisted
	storage.loadErr = errors.New("i/o timeout")

	session := NewSession(storage, "favorites", nil)
	assert.Empty(t, session.Summaries(ctx))
	assert.False(t, session.Hydrated())

	_, err = session.Toggle(ctx, summary(9, "new"))
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, storage.loadErr)

	err = session.Remove(ctx, models.ProductIDFromInt(1))
	assert.ErrorIs(t, err, ErrLoadFailed)

	assert.Equal(t, 0, storage.saves)
	assert.Equal(t, persisted, storage.slots["favorites"])

	storage.loadErr = nil
	isFavorite, err := session.Toggle(ctx, summary(9, "new"))
	require.NoError(t, err)
	assert.True(t, isFavorite)
	assert.True(t, session.Hydrated())

	saved, ok := DecodeState(storage.slots["favorites"])
	require.True(t, ok)
	assert.Equal(t, 4, saved.Len())
}

func TestLoadStateSeparatesErrorFromAbsent(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()

	_, ok, err := LoadState(ctx, storage, "missing", nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	storage.slots["bad"] = []byte("null")
	_, ok, err = LoadState(ctx, storage, "bad", nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	storage.loadErr = errors.New("connection refused")
	_, ok, err = LoadState(ctx, storage, "missing", nil)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.False(t, ok)
}

func TestSessionSaveErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	storage.saveErr = errors.New("read only")

	session := NewSession(storage, "favorites", nil)
	isFavorite, err := session.Toggle(ctx, summary(1, "a"))
	assert.Error(t, err)
	assert.True(t, isFavorite)

	err = session.Remove(ctx, models.ProductIDFromInt(1))
	assert.ErrorIs(t, err, storage.saveErr)
	assert.False(t, session.IsFavorite(ctx, models.ProductIDFromInt(1)))
}
