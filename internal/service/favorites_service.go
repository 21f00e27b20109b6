package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"catalog-service/internal/catalog"
	"catalog-service/internal/favorites"
	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultClientID owns the container of callers that send no client id
const DefaultClientID = "anonymous"

// ErrInvalidProductID is returned for an empty or non-numeric product id
// when no summary is supplied
var ErrInvalidProductID = errors.New("invalid product id")

// FavoriteEvents publishes favorites changes; *broker.EventPublisher implements it
type FavoriteEvents interface {
	PublishFavoriteToggled(ctx context.Context, clientID string, productID models.ProductID, isFavorite bool) error
	PublishFavoriteRemoved(ctx context.Context, clientID string, productID models.ProductID) error
}

// ProductLookup resolves a product for summary building; *CatalogService implements it
type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// lockStripes bounds the number of client locks held in memory
const lockStripes = 64

// FavoritesService serves per-client favorites. Storage is the source of
// truth: every call loads the client's slot into a fresh session, and
// mutations are written back before the client's lock is released.
type FavoritesService struct {
	storage  favorites.Storage
	products ProductLookup
	events   FavoriteEvents
	logger   *zap.Logger

	locks [lockStripes]sync.Mutex
}

// NewFavoritesService creates a new favorites service. events may be nil.
func NewFavoritesService(storage favorites.Storage, products ProductLookup, events FavoriteEvents) *FavoritesService {
	return &FavoritesService{
		storage:  storage,
		products: products,
		events:   events,
		logger:   util.Component("favorites-service"),
	}
}

// ToggleFavoriteRequest carries either a full summary or just a product id
type ToggleFavoriteRequest struct {
	ProductID models.ProductID        `json:"productId"`
	Summary   *models.FavoriteSummary `json:"summary,omitempty"`
}

// FavoriteResult reports a favorites mutation. Persisted is false when the
// change could not be written to storage and was therefore discarded.
type FavoriteResult struct {
	ProductID  models.ProductID `json:"productId"`
	IsFavorite bool             `json:"isFavorite"`
	Persisted  bool             `json:"persisted"`
}

// FavoritesResponse lists a client's favorites
type FavoritesResponse struct {
	ClientID string                   `json:"clientId"`
	Count    int                      `json:"count"`
	Items    []models.FavoriteSummary `json:"items"`
}

func normalizeClientID(clientID string) string {
	if clientID == "" {
		return DefaultClientID
	}
	return clientID
}

func (s *FavoritesService) lockFor(clientID string) *sync.Mutex {
	return &s.locks[xxhash.Sum64String(clientID)%lockStripes]
}

// withSession runs fn on a freshly hydrated session under the client's lock
func (s *FavoritesService) withSession(ctx context.Context, clientID string, fn func(*favorites.Session)) {
	lock := s.lockFor(clientID)
	lock.Lock()
	defer lock.Unlock()

	session := favorites.NewSession(s.storage, clientID, s.logger)

	result := "empty"
	loaded, err := session.Hydrate(ctx)
	switch {
	case err != nil:
		result = "error"
	case loaded:
		result = "loaded"
	}
	util.FavoriteHydrationsTotal.WithLabelValues(result).Inc()
	s.logger.Debug("Favorites hydrated", zap.String("client_id", clientID), zap.String("result", result))

	fn(session)
}

// List returns the client's favorite summaries
func (s *FavoritesService) List(ctx context.Context, clientID string) *FavoritesResponse {
	clientID = normalizeClientID(clientID)

	var items []models.FavoriteSummary
	s.withSession(ctx, clientID, func(session *favorites.Session) {
		items = session.Summaries(ctx)
	})

	return &FavoritesResponse{ClientID: clientID, Count: len(items), Items: items}
}

// IsFavorite reports whether the client has favorited id
func (s *FavoritesService) IsFavorite(ctx context.Context, clientID string, id models.ProductID) bool {
	var isFavorite bool
	s.withSession(ctx, normalizeClientID(clientID), func(session *favorites.Session) {
		isFavorite = session.IsFavorite(ctx, id)
	})
	return isFavorite
}

func (s *FavoritesService) resolveSummary(ctx context.Context, req *ToggleFavoriteRequest) (models.FavoriteSummary, error) {
	if req.Summary != nil {
		summary := *req.Summary
		if summary.ID.Key() == "" {
			summary.ID = req.ProductID
		}
		if summary.ID.Key() == "" {
			return models.FavoriteSummary{}, ErrInvalidProductID
		}
		return summary, nil
	}

	id, err := strconv.ParseInt(req.ProductID.Key(), 10, 64)
	if err != nil {
		return models.FavoriteSummary{}, fmt.Errorf("%w: %q", ErrInvalidProductID, req.ProductID)
	}

	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return models.FavoriteSummary{}, err
	}
	return catalog.BuildFavoriteSummary(*product), nil
}

// Toggle flips the favorite flag for the requested product
func (s *FavoritesService) Toggle(ctx context.Context, clientID string, req *ToggleFavoriteRequest) (*FavoriteResult, error) {
	ctx, span := util.StartSpan(ctx, "FavoritesService.Toggle")
	defer span.End()

	clientID = normalizeClientID(clientID)

	summary, err := s.resolveSummary(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("product_id", summary.ID.Key()))

	result := &FavoriteResult{ProductID: summary.ID, Persisted: true}
	s.withSession(ctx, clientID, func(session *favorites.Session) {
		result.IsFavorite, err = session.Toggle(ctx, summary)
	})
	if errors.Is(err, favorites.ErrLoadFailed) {
		span.RecordError(err)
		return nil, err
	}
	if err != nil {
		result.Persisted = false
		s.persistFailed(clientID, err)
	}

	action := "removed"
	if result.IsFavorite {
		action = "added"
	}
	util.FavoriteTogglesTotal.WithLabelValues(action).Inc()
	s.logger.Info("Favorite toggled",
		zap.String("client_id", clientID),
		zap.String("product_id", summary.ID.Key()),
		zap.Bool("is_favorite", result.IsFavorite))

	if s.events != nil {
		if err := s.events.PublishFavoriteToggled(ctx, clientID, summary.ID, result.IsFavorite); err != nil {
			s.logger.Error("Failed to publish FavoriteToggled event", zap.Error(err))
		}
	}

	return result, nil
}

// Remove clears the favorite for id unconditionally
func (s *FavoritesService) Remove(ctx context.Context, clientID string, id models.ProductID) (*FavoriteResult, error) {
	ctx, span := util.StartSpan(ctx, "FavoritesService.Remove", attribute.String("product_id", id.Key()))
	defer span.End()

	if id.Key() == "" {
		return nil, ErrInvalidProductID
	}
	clientID = normalizeClientID(clientID)

	var err error
	s.withSession(ctx, clientID, func(session *favorites.Session) {
		err = session.Remove(ctx, id)
	})

	if errors.Is(err, favorites.ErrLoadFailed) {
		span.RecordError(err)
		return nil, err
	}

	result := &FavoriteResult{ProductID: id, Persisted: err == nil}
	if err != nil {
		s.persistFailed(clientID, err)
	}
	util.FavoriteTogglesTotal.WithLabelValues("cleared").Inc()

	if s.events != nil {
		if err := s.events.PublishFavoriteRemoved(ctx, clientID, id); err != nil {
			s.logger.Error("Failed to publish FavoriteRemoved event", zap.Error(err))
		}
	}

	return result, nil
}

func (s *FavoritesService) persistFailed(clientID string, err error) {
	util.FavoritePersistFailuresTotal.Inc()
	s.logger.Error("Failed to persist favorites",
		zap.String("client_id", clientID),
		zap.Error(err))
}
