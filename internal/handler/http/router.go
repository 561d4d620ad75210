package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/ReviewDeskGo/internal/service"
	"github.com/utafrali/ReviewDeskGo/pkg/health"
	"github.com/utafrali/ReviewDeskGo/pkg/middleware"
)

// Services bundles the application services the router exposes.
type Services struct {
	Reviews     *service.ReviewService
	Responses   *service.ResponseService
	Templates   *service.TemplateService
	Restaurants *service.RestaurantService
	Analytics   *service.AnalyticsService
}

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(
	services Services,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
	pprofAllowedCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("reviewdesk"))
	r.Use(middleware.Tracing("reviewdesk"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Identity)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Profiling endpoints, gated by an IP allowlist.
	if len(pprofAllowedCIDRs) > 0 {
		middleware.RegisterPprof(r, pprofAllowedCIDRs, logger)
	}

	reviewHandler := NewReviewHandler(services.Reviews, services.Analytics, logger)
	responseHandler := NewResponseHandler(services.Responses, logger)
	templateHandler := NewTemplateHandler(services.Templates, logger)
	restaurantHandler := NewRestaurantHandler(services.Restaurants, logger)

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", reviewHandler.ListReviews)
		r.With(middleware.RequireUser).Post("/", reviewHandler.CreateReview)

		// Analytics endpoint (must come before /{id} to avoid conflict).
		r.Get("/analytics", reviewHandler.GetAnalytics)

		r.Get("/{id}", reviewHandler.GetReview)
		r.With(middleware.RequireUser).Patch("/{id}/status", reviewHandler.SetStatus)

		r.Get("/{id}/responses", responseHandler.ListResponses)
		r.With(middleware.RequireUser).Post("/{id}/responses", responseHandler.CreateResponse)
		r.With(middleware.RequireUser).Post("/{id}/responses/generate", responseHandler.GenerateDraft)
	})

	r.Route("/api/v1/responses", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.RequireUser)

		r.Put("/{id}", responseHandler.UpdateResponse)
		r.Post("/{id}/post", responseHandler.MarkPosted)
		r.Delete("/{id}", responseHandler.DeleteResponse)
	})

	r.Route("/api/v1/templates", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Templates change rarely, so public reads are cacheable for a minute.
		r.With(middleware.CacheControl(60)).Get("/", templateHandler.ListTemplates)
		r.With(middleware.CacheControl(60)).Get("/{id}", templateHandler.GetTemplate)
		r.Post("/{id}/render", templateHandler.RenderTemplate)
		r.With(middleware.RequireUser).Post("/", templateHandler.CreateTemplate)
		r.With(middleware.RequireUser).Put("/{id}", templateHandler.UpdateTemplate)
		r.With(middleware.RequireUser).Delete("/{id}", templateHandler.DeleteTemplate)
	})

	r.Route("/api/v1/restaurants", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", restaurantHandler.ListRestaurants)
		r.Get("/{id}", restaurantHandler.GetRestaurant)
		r.With(middleware.RequireUser).Post("/", restaurantHandler.CreateRestaurant)
	})

	return r
}
