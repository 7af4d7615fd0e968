package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "foodgram"

var (
	// HTTPRequestDuration observes handler latency per route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	ShortLinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "short_links_created_total",
		Help:      "Short links bound to a recipe for the first time.",
	})

	// ShortLinkCollisions counts inserts rejected because the token was already taken.
	ShortLinkCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "short_link_token_collisions_total",
		Help:      "Token collisions hit while creating short links.",
	})

	ShortLinkResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "short_link_resolutions_total",
		Help:      "Inbound short link lookups by result.",
	}, []string{"result"})

	ShoppingListsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shopping_lists_generated_total",
		Help:      "Shopping list reports rendered.",
	})
)
