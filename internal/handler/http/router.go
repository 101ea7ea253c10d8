package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/view"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "storefront"

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	productService *service.ProductService,
	reviewService *service.ReviewService,
	panels *PanelLoader,
	renderer *view.Renderer,
	healthHandler *health.Handler,
	submitLimit middleware.RateLimitConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Review submissions share one per-client budget across HTML and API.
	limitSubmissions := middleware.RateLimit(submitLimit, logger)

	// Server-rendered pages
	pageHandler := NewPageHandler(productService, reviewService, panels, renderer, logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Get("/", pageHandler.Index)
		r.Get("/products/{id}", pageHandler.Detail)
		r.With(limitSubmissions).Post("/products/{id}/reviews", pageHandler.SubmitReview)
	})

	// JSON API
	productHandler := NewProductHandler(productService, logger)
	reviewHandler := NewReviewHandler(productService, reviewService, panels, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(CORS)
		r.Use(ContentTypeJSON)

		r.With(middleware.CacheControl(60)).Get("/", productHandler.ListProducts)
		r.With(middleware.CacheControl(60)).Get("/{id}", productHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Get("/{id}/reviews", reviewHandler.GetReviews)
			r.With(limitSubmissions).Post("/{id}/reviews", reviewHandler.CreateReview)
		})
	})

	return r
}
