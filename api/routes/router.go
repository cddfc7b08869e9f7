package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nazmulcodes/deshcart-backend/api/controllers"
	"github.com/nazmulcodes/deshcart-backend/api/middleware"
	"github.com/nazmulcodes/deshcart-backend/internal/growthmap"
	"github.com/nazmulcodes/deshcart-backend/internal/insights"
	"github.com/nazmulcodes/deshcart-backend/internal/views"
	"github.com/nazmulcodes/deshcart-backend/pkg/config"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
)

// Deps bundles everything the API router wires together.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Growth   *growthmap.Service
	Sessions *growthmap.SessionManager
	Insights *insights.Service
	Views    *views.Service
	Registry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminKey(cfg.Admin.APIKey, logg))

		r.Route("/growth", func(r chi.Router) {
			r.Get("/frames", controllers.GrowthFrames(deps.Growth, cfg, logg))
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", controllers.GrowthSessionCreate(deps.Growth, deps.Sessions, cfg, logg))
				r.Route("/{sessionId}", func(r chi.Router) {
					r.Get("/", controllers.GrowthSessionState(deps.Sessions, logg))
					r.Post("/play", controllers.GrowthSessionPlay(deps.Sessions, logg))
					r.Post("/pause", controllers.GrowthSessionPause(deps.Sessions, logg))
					r.Post("/reset", controllers.GrowthSessionReset(deps.Sessions, logg))
					r.Post("/seek", controllers.GrowthSessionSeek(deps.Sessions, logg))
					r.Post("/speed", controllers.GrowthSessionSpeed(deps.Sessions, logg))
					r.Delete("/", controllers.GrowthSessionDelete(deps.Sessions, logg))
				})
			})
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/segments", controllers.InsightsSegments(deps.Insights, logg))
			r.Get("/predictions", controllers.InsightsPredictions(deps.Insights, cfg, logg))
		})

		r.Route("/views", func(r chi.Router) {
			r.Get("/", controllers.ViewsList(deps.Views, logg))
			r.Post("/", controllers.ViewsCreate(deps.Views, logg))
			r.Delete("/{viewId}", controllers.ViewsDelete(deps.Views, logg))
		})
	})

	return r
}
