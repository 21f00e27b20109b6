package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
	"catalog-service/internal/store"
	"catalog-service/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrProductNotFound is returned when a product id is unknown
var ErrProductNotFound = errors.New("product not found")

// ProductSource reads product snapshots; *store.Store implements it
type ProductSource interface {
	ListProducts(ctx context.Context, q store.ProductQuery) (*store.ProductPage, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// CatalogService serves normalized product listings and details
type CatalogService struct {
	products ProductSource
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products ProductSource) *CatalogService {
	return &CatalogService{
		products: products,
		logger:   util.Component("catalog-service"),
	}
}

// ProductListResponse is one page of product cards
type ProductListResponse struct {
	TotalPages      int                      `json:"totalPages"`
	TotalRecord     int                      `json:"totalRecord"`
	CurrentPage     int                      `json:"currentPage"`
	HasNextPage     bool                     `json:"hasNextPage"`
	HasPreviousPage bool                     `json:"hasPreviousPage"`
	Products        []catalog.ProductCard    `json:"products"`
	Categories      []catalog.CategoryOption `json:"categories"`
}

// ListProducts fetches a page by keyword and category, then narrows it with
// the full listing predicate. Paging figures describe the fetched page.
func (s *CatalogService) ListProducts(ctx context.Context, filter catalog.Filter) (*ProductListResponse, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts",
		attribute.String("search", filter.Search),
		attribute.Int("page", filter.Page),
		attribute.Int("page_size", filter.PageSize))
	defer span.End()

	page, err := s.products.ListProducts(ctx, store.ProductQuery{
		Keyword:    filter.Search,
		CategoryID: filter.CategoryID,
		Limit:      filter.PageSize,
		Offset:     filter.Offset(),
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if page.Skipped > 0 {
		s.logger.Warn("Skipped undecodable product snapshots", zap.Int("count", page.Skipped))
	}

	matched := filter.Apply(page.Products)
	util.ProductsFilteredOutTotal.Add(float64(len(page.Products) - len(matched)))

	cards := make([]catalog.ProductCard, 0, len(matched))
	for _, product := range matched {
		cards = append(cards, catalog.BuildProductCard(product))
	}
	util.ProductsListedTotal.Add(float64(len(cards)))

	totalPages := 0
	if filter.PageSize > 0 {
		totalPages = (page.Total + filter.PageSize - 1) / filter.PageSize
	}

	return &ProductListResponse{
		TotalPages:      totalPages,
		TotalRecord:     page.Total,
		CurrentPage:     filter.Page,
		HasNextPage:     filter.Page < totalPages,
		HasPreviousPage: filter.Page > 1,
		Products:        cards,
		Categories:      catalog.CategoryOptions(page.Products),
	}, nil
}

// GetProduct returns the raw snapshot for id
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.GetProductByID(ctx, id)
	if errors.Is(err, store.ErrProductNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return product, nil
}

// GetProductDetail resolves the detail view with the given variant selected
func (s *CatalogService) GetProductDetail(ctx context.Context, id int64, propertyID *int64) (*catalog.ProductDetail, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProductDetail", attribute.Int64("product_id", id))
	defer span.End()

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	detail := catalog.BuildProductDetail(*product, propertyID)
	return &detail, nil
}
