package worker

import (
	"context"

	"catalog-service/internal/broker"
	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ProductWriter stores product snapshots and remembers applied events;
// *store.Store implements it
type ProductWriter interface {
	UpsertProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// MessageSource delivers catalog messages; *broker.Consumer implements it
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// CatalogWorker keeps product snapshots in sync with upstream catalog events
type CatalogWorker struct {
	source       MessageSource
	eventHandler *broker.EventHandler
	products     ProductWriter
	logger       *zap.Logger
}

// NewCatalogWorker creates a new catalog worker
func NewCatalogWorker(source MessageSource, products ProductWriter) *CatalogWorker {
	w := &CatalogWorker{
		source:       source,
		eventHandler: broker.NewEventHandler(),
		products:     products,
		logger:       util.Component("catalog-worker"),
	}

	w.eventHandler.OnProductUpserted(w.handleProductUpserted)
	w.eventHandler.OnProductDeleted(w.handleProductDeleted)

	return w
}

// applyOnce runs apply unless the event id was already recorded. Events
// without an id are always applied.
func (w *CatalogWorker) applyOnce(ctx context.Context, event models.BaseEvent, apply func() error) error {
	if event.EventID == "" {
		return apply()
	}

	processed, err := w.products.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		util.ProductUpsertsTotal.WithLabelValues("duplicate").Inc()
		w.logger.Debug("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	if err := apply(); err != nil {
		return err
	}
	return w.products.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *CatalogWorker) handleProductUpserted(ctx context.Context, event *models.ProductUpsertedEvent) error {
	if event.Product.ID == 0 {
		util.ProductUpsertsTotal.WithLabelValues("skipped").Inc()
		w.logger.Warn("Skipping product event without id", zap.String("event_id", event.EventID))
		return nil
	}

	return w.applyOnce(ctx, event.BaseEvent, func() error {
		if err := w.products.UpsertProduct(ctx, event.Product); err != nil {
			util.ProductUpsertsTotal.WithLabelValues("error").Inc()
			return err
		}
		util.ProductUpsertsTotal.WithLabelValues("ok").Inc()
		w.logger.Debug("Product snapshot stored", zap.Int64("product_id", event.Product.ID))
		return nil
	})
}

func (w *CatalogWorker) handleProductDeleted(ctx context.Context, event *models.ProductDeletedEvent) error {
	return w.applyOnce(ctx, event.BaseEvent, func() error {
		if err := w.products.DeleteProduct(ctx, event.ProductID); err != nil {
			return err
		}
		w.logger.Debug("Product snapshot deleted", zap.Int64("product_id", event.ProductID))
		return nil
	})
}

// HandleMessage processes a single catalog message
func (w *CatalogWorker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	return w.eventHandler.HandleMessage(ctx, msg)
}

// Start starts the worker
func (w *CatalogWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting catalog worker")
	return w.source.StartConsuming(ctx, w.HandleMessage)
}

// Stop stops the worker
func (w *CatalogWorker) Stop() error {
	w.logger.Info("Stopping catalog worker")
	return w.source.Close()
}
