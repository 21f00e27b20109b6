package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventWriter writes a keyed event; *Producer implements it
type EventWriter interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing favorites events
type EventPublisher struct {
	writer EventWriter
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(writer EventWriter) *EventPublisher {
	return &EventPublisher{writer: writer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

func favoriteKey(clientID string) string {
	return fmt.Sprintf("favorites-%s", clientID)
}

// PublishFavoriteToggled publishes FavoriteToggled event
func (ep *EventPublisher) PublishFavoriteToggled(ctx context.Context, clientID string, productID models.ProductID, isFavorite bool) error {
	event := &models.FavoriteToggledEvent{
		BaseEvent:  newBaseEvent(models.EventTypeFavoriteToggled),
		ClientID:   clientID,
		ProductID:  productID,
		IsFavorite: isFavorite,
	}
	return ep.writer.PublishEvent(ctx, favoriteKey(clientID), event)
}

// PublishFavoriteRemoved publishes FavoriteRemoved event
func (ep *EventPublisher) PublishFavoriteRemoved(ctx context.Context, clientID string, productID models.ProductID) error {
	event := &models.FavoriteRemovedEvent{
		BaseEvent: newBaseEvent(models.EventTypeFavoriteRemoved),
		ClientID:  clientID,
		ProductID: productID,
	}
	return ep.writer.PublishEvent(ctx, favoriteKey(clientID), event)
}

// EventHandler handles incoming catalog events
type EventHandler struct {
	onProductUpserted func(context.Context, *models.ProductUpsertedEvent) error
	onProductDeleted  func(context.Context, *models.ProductDeletedEvent) error
	logger            *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.Component("event-handler")}
}

// OnProductUpserted registers a handler for ProductUpserted events
func (eh *EventHandler) OnProductUpserted(handler func(context.Context, *models.ProductUpsertedEvent) error) {
	eh.onProductUpserted = handler
}

// OnProductDeleted registers a handler for ProductDeleted events
func (eh *EventHandler) OnProductDeleted(handler func(context.Context, *models.ProductDeletedEvent) error) {
	eh.onProductDeleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeProductUpserted:
		if eh.onProductUpserted != nil {
			var event models.ProductUpsertedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductUpserted event: %w", err)
			}
			return eh.onProductUpserted(ctx, &event)
		}

	case models.EventTypeProductDeleted:
		if eh.onProductDeleted != nil {
			var event models.ProductDeletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductDeleted event: %w", err)
			}
			return eh.onProductDeleted(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
