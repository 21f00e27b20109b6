package favorites

import (
	"sort"

	"catalog-service/internal/models"
)

// State is the favorites state. A key is in Entities exactly when its flag in
// Items is true. Transitions return a new State and never modify the receiver.
type State struct {
	Items    map[string]bool                   `json:"items"`
	Entities map[string]models.FavoriteSummary `json:"entities"`
}

// Empty returns the initial state
func Empty() State {
	return State{
		Items:    map[string]bool{},
		Entities: map[string]models.FavoriteSummary{},
	}
}

func (s State) clone() State {
	next := State{
		Items:    make(map[string]bool, len(s.Items)+1),
		Entities: make(map[string]models.FavoriteSummary, len(s.Entities)+1),
	}
	for k, v := range s.Items {
		next.Items[k] = v
	}
	for k, v := range s.Entities {
		next.Entities[k] = v
	}
	return next
}

// Toggle flips the favorite flag for summary.ID. Favoriting stores the summary,
// overwriting a stale copy; unfavoriting drops both the flag and the summary.
func (s State) Toggle(summary models.FavoriteSummary) State {
	key := summary.ID.Key()
	next := s.clone()

	if next.Items[key] {
		delete(next.Items, key)
		delete(next.Entities, key)
		return next
	}

	next.Items[key] = true
	next.Entities[key] = summary
	return next
}

// Remove clears the favorite for id whether or not it is set
func (s State) Remove(id models.ProductID) State {
	key := id.Key()
	next := s.clone()
	delete(next.Items, key)
	delete(next.Entities, key)
	return next
}

// Hydrate replaces the whole state with incoming. Keys whose flag is not
// true, or that have no summary, are dropped so the invariant holds.
func (s State) Hydrate(incoming State) State {
	next := Empty()
	for key, flag := range incoming.Items {
		summary, ok := incoming.Entities[key]
		if !flag || !ok {
			continue
		}
		next.Items[key] = true
		next.Entities[key] = summary
	}
	return next
}

// IsFavorite reports whether id is currently favorited
func (s State) IsFavorite(id models.ProductID) bool {
	return s.Items[id.Key()]
}

// Summaries returns all favorite summaries ordered by key
func (s State) Summaries() []models.FavoriteSummary {
	keys := make([]string, 0, len(s.Entities))
	for k := range s.Entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.FavoriteSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.Entities[k])
	}
	return out
}

// Len returns the number of favorites
func (s State) Len() int {
	return len(s.Entities)
}
