package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"catalog-service/internal/models"

	"go.uber.org/zap"
)

// ErrLoadFailed marks a storage read failure during hydration
var ErrLoadFailed = errors.New("failed to load favorites")

// Storage reads and writes the persisted blob of a named slot.
// Load returns nil, nil when the slot is empty.
type Storage interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, blob []byte) error
}

// persistedState mirrors State but tolerates missing maps
type persistedState struct {
	Items    map[string]bool                   `json:"items"`
	Entities map[string]models.FavoriteSummary `json:"entities"`
}

// DecodeState parses a persisted blob. It returns false for an empty or
// malformed blob; missing maps decode as empty.
func DecodeState(blob []byte) (State, bool) {
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 || blob[0] != '{' {
		return State{}, false
	}

	var raw persistedState
	if err := json.Unmarshal(blob, &raw); err != nil {
		return State{}, false
	}

	state := Empty()
	if raw.Items != nil {
		state.Items = raw.Items
	}
	if raw.Entities != nil {
		state.Entities = raw.Entities
	}
	return state, true
}

// EncodeState serializes a state into the persisted blob format
func EncodeState(state State) ([]byte, error) {
	items := state.Items
	if items == nil {
		items = map[string]bool{}
	}
	entities := state.Entities
	if entities == nil {
		entities = map[string]models.FavoriteSummary{}
	}
	return json.Marshal(persistedState{Items: items, Entities: entities})
}

// LoadState reads the slot and returns the persisted state, or false when
// nothing usable is stored. A malformed blob is logged and treated as empty.
// A storage read failure is returned so callers never mistake an unreachable
// store for an empty one.
func LoadState(ctx context.Context, storage Storage, slot string, logger *zap.Logger) (State, bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	blob, err := storage.Load(ctx, slot)
	if err != nil {
		return State{}, false, fmt.Errorf("%w: slot %s: %w", ErrLoadFailed, slot, err)
	}
	if blob == nil {
		return State{}, false, nil
	}

	state, ok := DecodeState(blob)
	if !ok {
		logger.Warn("Ignoring malformed favorites blob", zap.String("slot", slot), zap.Int("bytes", len(blob)))
		return State{}, false, nil
	}
	return state, true, nil
}

// PersistState writes the full state to the slot
func PersistState(ctx context.Context, storage Storage, slot string, state State) error {
	blob, err := EncodeState(state)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := storage.Save(ctx, slot, blob); err != nil {
		return fmt.Errorf("failed to save favorites slot %s: %w", slot, err)
	}
	return nil
}

// Session binds a Store to a storage slot. The slot is read before the first
// read or mutation, and every mutation after that is written back. Until a
// read succeeds, reads see the empty state and mutations fail without
// writing. A Session is not safe for concurrent use.
type Session struct {
	store    *Store
	storage  Storage
	slot     string
	hydrated bool
	logger   *zap.Logger
}

// NewSession creates a session over an empty store
func NewSession(storage Storage, slot string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:   NewStore(),
		storage: storage,
		slot:    slot,
		logger:  logger,
	}
}

// Slot returns the storage slot name
func (s *Session) Slot() string {
	return s.slot
}

// Hydrated reports whether the slot has been read successfully
func (s *Session) Hydrated() bool {
	return s.hydrated
}

// Hydrate performs the one-time load and reports whether persisted state was
// applied. After a successful read later calls are no-ops. A failed read
// leaves the session unhydrated so the next call tries again.
func (s *Session) Hydrate(ctx context.Context) (bool, error) {
	if s.hydrated {
		return false, nil
	}

	state, ok, err := LoadState(ctx, s.storage, s.slot, s.logger)
	if err != nil {
		s.logger.Warn("Failed to read favorites slot", zap.String("slot", s.slot), zap.Error(err))
		return false, err
	}
	s.hydrated = true

	if !ok {
		return false, nil
	}
	s.store.Hydrate(state)
	return true, nil
}

// State returns the current state, hydrating first if needed
func (s *Session) State(ctx context.Context) State {
	_, _ = s.Hydrate(ctx)
	return s.store.State()
}

// Toggle flips a favorite and persists the result. It fails without touching
// storage when the slot could not be read. The returned flag reflects the
// in-memory state even when the write fails.
func (s *Session) Toggle(ctx context.Context, summary models.FavoriteSummary) (bool, error) {
	if _, err := s.Hydrate(ctx); err != nil {
		return s.store.IsFavorite(summary.ID), err
	}
	isFavorite := s.store.Toggle(summary)
	return isFavorite, PersistState(ctx, s.storage, s.slot, s.store.State())
}

// Remove clears a favorite and persists the result. It fails without touching
// storage when the slot could not be read.
func (s *Session) Remove(ctx context.Context, id models.ProductID) error {
	if _, err := s.Hydrate(ctx); err != nil {
		return err
	}
	s.store.Remove(id)
	return PersistState(ctx, s.storage, s.slot, s.store.State())
}

// IsFavorite reports whether id is favorited
func (s *Session) IsFavorite(ctx context.Context, id models.ProductID) bool {
	_, _ = s.Hydrate(ctx)
	return s.store.IsFavorite(id)
}

// Summaries lists the favorite summaries
func (s *Session) Summaries(ctx context.Context) []models.FavoriteSummary {
	_, _ = s.Hydrate(ctx)
	return s.store.Summaries()
}
