package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/service"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/health"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/middleware"
)

// NewRouter creates a chi router with all library routes registered.
func NewRouter(
	libraryService *service.LibraryService,
	reminderService *service.ReminderService,
	newsletterService *service.NewsletterService,
	healthHandler *health.Handler,
	corsConfig middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("library"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	libraryHandler := NewLibraryHandler(libraryService, logger)
	adminHandler := NewAdminHandler(libraryService, reminderService, newsletterService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Scan kiosk entrypoint
		r.Post("/scan", libraryHandler.Scan)

		r.Route("/books", func(r chi.Router) {
			r.Post("/", libraryHandler.RegisterBook)
			r.Get("/", libraryHandler.ListBooks)

			r.Get("/{isbn}", libraryHandler.GetBook)
			r.Put("/{isbn}", libraryHandler.UpdateBook)
			r.Delete("/{isbn}", libraryHandler.DeleteBook)
			r.Post("/{isbn}/checkout", libraryHandler.CheckoutBook)
			r.Post("/{isbn}/return", libraryHandler.ReturnBook)
		})

		// Patron autocomplete for the checkout form
		r.Get("/patrons", libraryHandler.SearchPatrons)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", adminHandler.Dashboard)
			r.Post("/checkouts/{id}/return", adminHandler.ForceReturn)
			r.Post("/blast", adminHandler.Blast)
			r.Post("/jobs/overdue-check", adminHandler.TriggerOverdueCheck)
			r.Post("/jobs/newsletter", adminHandler.TriggerNewsletter)
		})
	})

	return r
}
