package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/favorites"
	"catalog-service/internal/models"
	"catalog-service/internal/service"
	"catalog-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientIDHeader selects the caller's favorites container
const ClientIDHeader = "X-Client-ID"

// CatalogService is the listing/detail surface used by the handlers
type CatalogService interface {
	ListProducts(ctx context.Context, filter catalog.Filter) (*service.ProductListResponse, error)
	GetProductDetail(ctx context.Context, id int64, propertyID *int64) (*catalog.ProductDetail, error)
}

// FavoritesService is the favorites surface used by the handlers
type FavoritesService interface {
	List(ctx context.Context, clientID string) *service.FavoritesResponse
	IsFavorite(ctx context.Context, clientID string, id models.ProductID) bool
	Toggle(ctx context.Context, clientID string, req *service.ToggleFavoriteRequest) (*service.FavoriteResult, error)
	Remove(ctx context.Context, clientID string, id models.ProductID) (*service.FavoriteResult, error)
}

// ReadinessCheck reports whether a dependency is reachable
type ReadinessCheck func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	catalog         CatalogService
	favorites       FavoritesService
	defaultPageSize int
	checks          map[string]ReadinessCheck
}

// NewHandler creates a new HTTP handler
func NewHandler(catalogService CatalogService, favoritesService FavoritesService, defaultPageSize int) *Handler {
	return &Handler{
		catalog:         catalogService,
		favorites:       favoritesService,
		defaultPageSize: defaultPageSize,
		checks:          make(map[string]ReadinessCheck),
	}
}

// AddReadinessCheck registers a dependency checked by /ready
func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)

		v1.GET("/favorites", h.listFavorites)
		v1.GET("/favorites/:id", h.getFavorite)
		v1.POST("/favorites/toggle", h.toggleFavorite)
		v1.DELETE("/favorites/:id", h.removeFavorite)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck runs every registered dependency check
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failures := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not ready",
			"failures": failures,
			"time":     time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts handles the filtered product listing
func (h *Handler) listProducts(c *gin.Context) {
	filter := catalog.ParseFilter(c.Request.URL.Query(), h.defaultPageSize)

	resp, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list products",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getProduct handles the product detail with an optional ?variant= selection
func (h *Handler) getProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var propertyID *int64
	if raw := c.Query("variant"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			propertyID = &id
		}
	}

	detail, err := h.catalog.GetProductDetail(c.Request.Context(), productID, propertyID)
	if errors.Is(err, service.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"details": err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load product",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":    detail,
		"isFavorite": h.favorites.IsFavorite(c.Request.Context(), clientID(c), models.ProductIDFromInt(productID)),
	})
}

// listFavorites handles listing the caller's favorites
func (h *Handler) listFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, h.favorites.List(c.Request.Context(), clientID(c)))
}

// getFavorite reports whether a product is favorited
func (h *Handler) getFavorite(c *gin.Context) {
	id := models.ProductID(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"productId":  id,
		"isFavorite": h.favorites.IsFavorite(c.Request.Context(), clientID(c), id),
	})
}

// toggleFavorite handles flipping a favorite
func (h *Handler) toggleFavorite(c *gin.Context) {
	var req service.ToggleFavoriteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.favorites.Toggle(c.Request.Context(), clientID(c), &req)
	if err != nil {
		writeFavoriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// removeFavorite handles explicit removal
func (h *Handler) removeFavorite(c *gin.Context) {
	resp, err := h.favorites.Remove(c.Request.Context(), clientID(c), models.ProductID(c.Param("id")))
	if err != nil {
		writeFavoriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func writeFavoriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProductID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID", "details": err.Error()})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "details": err.Error()})
	case errors.Is(err, favorites.ErrLoadFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Favorites storage unavailable", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorites", "details": err.Error()})
	}
}

func clientID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(ClientIDHeader)); id != "" {
		return id
	}
	return service.DefaultClientID
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
