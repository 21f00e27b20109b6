package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsListedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_listed_total",
		Help: "Total number of product cards returned by listing requests",
	})

	ProductsFilteredOutTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_filtered_out_total",
		Help: "Total number of upstream products dropped by the listing predicate",
	})

	ProductUpsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_product_upserts_total",
		Help: "Total number of product snapshots written from catalog events",
	}, []string{"result"})

	FavoriteTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favorites_toggles_total",
		Help: "Total number of favorite toggles",
	}, []string{"action"})

	FavoriteHydrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favorites_hydrations_total",
		Help: "Total number of favorites slot hydrations",
	}, []string{"result"})

	FavoritePersistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "favorites_persist_failures_total",
		Help: "Total number of failed favorites slot writes",
	})

	StoreQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_store_query_latency_seconds",
		Help:    "Latency of product snapshot queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
