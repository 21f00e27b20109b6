package models

import "time"

// Event types
const (
	EventTypeProductUpserted = "PRODUCT_UPSERTED"
	EventTypeProductDeleted  = "PRODUCT_DELETED"
	EventTypeFavoriteToggled = "FAVORITE_TOGGLED"
	EventTypeFavoriteRemoved = "FAVORITE_REMOVED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductUpsertedEvent is published by the upstream catalog when a product changes
type ProductUpsertedEvent struct {
	BaseEvent
	Product Product `json:"product"`
}

// ProductDeletedEvent is published by the upstream catalog when a product is removed
type ProductDeletedEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
}

// FavoriteToggledEvent published after a client flips a favorite flag
type FavoriteToggledEvent struct {
	BaseEvent
	ClientID   string    `json:"client_id"`
	ProductID  ProductID `json:"product_id"`
	IsFavorite bool      `json:"is_favorite"`
}

// FavoriteRemovedEvent published after a favorite is removed explicitly
type FavoriteRemovedEvent struct {
	BaseEvent
	ClientID  string    `json:"client_id"`
	ProductID ProductID `json:"product_id"`
}
