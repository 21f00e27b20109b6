package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"catalog-service/internal/broker"
	"catalog-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	upserted  []models.Product
	deleted   []int64
	processed map[string]bool
	err       error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{processed: make(map[string]bool)}
}

func (f *fakeWriter) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	return f.processed[eventID], nil
}

func (f *fakeWriter) MarkEventProcessed(_ context.Context, eventID, _ string) error {
	f.processed[eventID] = true
	return nil
}

func (f *fakeWriter) UpsertProduct(_ context.Context, product models.Product) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, product)
	return nil
}

func (f *fakeWriter) DeleteProduct(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type sliceSource struct {
	messages []kafka.Message
	errs     []error
	closed   bool
}

func (s *sliceSource) StartConsuming(ctx context.Context, handler broker.MessageHandler) error {
	for _, msg := range s.messages {
		s.errs = append(s.errs, handler(ctx, msg))
	}
	return nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestCatalogWorkerAppliesEvents(t *testing.T) {
	writer := newFakeWriter()
	upsert := message(t, models.ProductUpsertedEvent{
		BaseEvent: models.BaseEvent{EventID: "1", EventType: models.EventTypeProductUpserted},
		Product:   models.Product{ID: 7, Name: "Tee", Price: models.NumString("19,90")},
	})
	source := &sliceSource{messages: []kafka.Message{
		upsert,
		upsert,
		message(t, models.ProductUpsertedEvent{
			BaseEvent: models.BaseEvent{EventID: "2", EventType: models.EventTypeProductUpserted},
		}),
		message(t, models.ProductDeletedEvent{
			BaseEvent: models.BaseEvent{EventID: "3", EventType: models.EventTypeProductDeleted},
			ProductID: 7,
		}),
	}}

	w := NewCatalogWorker(source, writer)
	require.NoError(t, w.Start(context.Background()))

	assert.Equal(t, []error{nil, nil, nil, nil}, source.errs)
	require.Len(t, writer.upserted, 1)
	assert.Equal(t, "Tee", writer.upserted[0].Name)
	assert.Equal(t, "19,90", writer.upserted[0].Price.Raw())
	assert.Equal(t, []int64{7}, writer.deleted)
	assert.True(t, writer.processed["1"])
	assert.True(t, writer.processed["3"])

	require.NoError(t, w.Stop())
	assert.True(t, source.closed)
}

func TestCatalogWorkerSurfacesStoreErrors(t *testing.T) {
	writer := newFakeWriter()
	writer.err = errors.New("db down")
	w := NewCatalogWorker(&sliceSource{}, writer)

	err := w.HandleMessage(context.Background(), message(t, models.ProductUpsertedEvent{
		BaseEvent: models.BaseEvent{EventID: "9", EventType: models.EventTypeProductUpserted},
		Product:   models.Product{ID: 1},
	}))
	assert.Error(t, err)
	assert.False(t, writer.processed["9"])
}
