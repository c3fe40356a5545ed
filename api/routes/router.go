package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasrivera/fridgekeeper-backend/api/controllers"
	"github.com/lucasrivera/fridgekeeper-backend/api/middleware"
	"github.com/lucasrivera/fridgekeeper-backend/internal/items"
	"github.com/lucasrivera/fridgekeeper-backend/internal/notifications"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/config"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
)

// RouterParams carry everything the HTTP surface depends on.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	Items         items.Service
	Notifications notifications.Service
	Scheduler     controllers.ExpiryScheduler
	Analyzer      controllers.ImageAnalyzer
	Metrics       prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Metrics, promhttp.HandlerOpts{}))
	}

	maxUploadBytes := int64(cfg.HTTP.MaxUploadMB) << 20

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(params.Items, logg))
			r.Post("/", controllers.CreateItem(params.Items, logg))
			r.Delete("/", controllers.DeleteAllItems(params.Items, logg))
			r.Get("/expiring", controllers.ListExpiringItems(params.Items, logg))
			r.Get("/expired", controllers.ListExpiredItems(params.Items, logg))
			r.Post("/analyze-image", controllers.AnalyzeItemImage(params.Analyzer, params.Items, logg, maxUploadBytes))
			r.Get("/{itemId}", controllers.GetItem(params.Items, logg))
			r.Put("/{itemId}", controllers.UpdateItem(params.Items, logg))
			r.Delete("/{itemId}", controllers.DeleteItem(params.Items, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(params.Notifications, logg))
			r.Post("/", controllers.CreateNotification(params.Notifications, logg))
			r.Delete("/", controllers.DeleteNotifications(params.Notifications, logg))
			r.Get("/stats", controllers.NotificationStats(params.Notifications, logg))
			r.Put("/read-all", controllers.MarkAllNotifications(params.Notifications, logg))
			r.Post("/check", controllers.TriggerNotificationCheck(params.Scheduler, logg))
			r.Get("/scheduler/status", controllers.SchedulerStatus(params.Scheduler, logg))
			r.Get("/{notificationId}", controllers.GetNotification(params.Notifications, logg))
			r.Put("/{notificationId}", controllers.UpdateNotification(params.Notifications, logg))
		})
	})

	return r
}
