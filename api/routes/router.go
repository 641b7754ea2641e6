package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mahallahub/mahalla-backend/api/controllers"
	"github.com/mahallahub/mahalla-backend/api/middleware"
	"github.com/mahallahub/mahalla-backend/internal/auditlog"
	"github.com/mahallahub/mahalla-backend/internal/moderation"
	"github.com/mahallahub/mahalla-backend/internal/notices"
	"github.com/mahallahub/mahalla-backend/internal/preferences"
	"github.com/mahallahub/mahalla-backend/pkg/config"
	"github.com/mahallahub/mahalla-backend/pkg/db"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
	"github.com/mahallahub/mahalla-backend/pkg/redis"
)

// RouterParams bundle everything the HTTP surface depends on.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       redis.Pinger
	Notices     notices.Service
	Moderation  moderation.Service
	Preferences preferences.Service
	AuditTrail  auditlog.Lister
	Metrics     prometheus.Gatherer
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/notices", controllers.SubmitNotice(p.Notices, logg))
		r.Get("/notices/{noticeID}", controllers.GetNotice(p.Notices, logg))

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", controllers.GetPreferences(p.Preferences, logg))
			r.Put("/", controllers.UpdatePreference(p.Preferences, logg))
			r.Post("/bootstrap", controllers.BootstrapPreferences(p.Preferences, logg))
		})

		r.Route("/moderation", func(r chi.Router) {
			r.Use(middleware.RequireModerator(logg))

			r.Get("/notices", controllers.ListPendingNotices(p.Moderation, logg))
			r.Get("/notices/counts", controllers.PendingCounts(p.Moderation, logg))
			r.Post("/notices/{noticeID}/approve", controllers.ApproveNotice(p.Moderation, logg))
			r.Post("/notices/{noticeID}/reject", controllers.RejectNotice(p.Moderation, logg))
			r.Post("/notices/{noticeID}/rebroadcast", controllers.RebroadcastNotice(p.Moderation, logg))
			r.Put("/categories/{category}", controllers.UpdateCategorySetting(p.Moderation, logg))
			r.Get("/statistics", controllers.ModerationStatistics(p.Moderation, logg))
			r.Get("/audit", controllers.RecentAuditEntries(p.AuditTrail, logg))
		})
	})

	return r
}
