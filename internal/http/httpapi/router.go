package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"supportraise/internal/http/handlers"
	"supportraise/internal/middleware"
)

// Options configures the cross-cutting middleware.
type Options struct {
	JWTSecret       string
	JWTIssuer       string
	AllowedOrigins  []string
	RateLimitPerMin int
	Locales         *middleware.LocaleResolver
	Logger          zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Locale"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Language"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
	)
	if opts.Locales != nil {
		r.Use(middleware.I18N(opts.Locales))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(opts.JWTSecret, opts.JWTIssuer))
			if opts.Locales != nil {
				r.Use(middleware.TokenLocale(opts.Locales))
			}

			r.Get("/dashboard", app.DashboardSummary)

			r.Route("/partners", func(r chi.Router) {
				r.Get("/", app.ListPartners)
				r.Get("/{id}", app.GetPartner)
			})

			r.Route("/editor/sessions", func(r chi.Router) {
				r.Post("/", app.OpenEditor)
				r.Route("/{sid}", func(r chi.Router) {
					r.Get("/", app.GetEditor)
					r.Delete("/", app.CloseEditor)
					r.Patch("/draft", app.PatchDraft)
					r.Post("/lock", app.ToggleLock)
					r.Post("/star", app.ToggleStar)
					r.Post("/save", app.SaveEditor)
					r.Post("/delete", app.RequestDelete)
					r.Post("/delete/cancel", app.CancelDelete)
					r.Post("/delete/confirm", app.ConfirmDelete)
				})
			})
		})
	})

	return r
}
