package favorites

import "catalog-service/internal/models"

// Store owns a favorites State and applies transitions to it.
// It is not safe for concurrent use.
type Store struct {
	state State
}

// NewStore creates a store holding the empty state
func NewStore() *Store {
	return &Store{state: Empty()}
}

// State returns the current state
func (s *Store) State() State {
	return s.state
}

// Toggle flips the favorite and returns the new flag
func (s *Store) Toggle(summary models.FavoriteSummary) bool {
	s.state = s.state.Toggle(summary)
	return s.state.IsFavorite(summary.ID)
}

// Remove clears a favorite
func (s *Store) Remove(id models.ProductID) {
	s.state = s.state.Remove(id)
}

// Hydrate replaces the state wholesale
func (s *Store) Hydrate(state State) {
	s.state = s.state.Hydrate(state)
}

// IsFavorite reports whether id is favorited
func (s *Store) IsFavorite(id models.ProductID) bool {
	return s.state.IsFavorite(id)
}

// Summaries lists the favorite summaries
func (s *Store) Summaries() []models.FavoriteSummary {
	return s.state.Summaries()
}
