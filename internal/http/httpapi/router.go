package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"campaignstudio/internal/http/handlers"
	"campaignstudio/internal/middleware"
)

// Options configure the router's middleware stack.
type Options struct {
	Logger          zerolog.Logger
	CORSOrigins     []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	// StaticDir is served under /static/ when set.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.CORSOrigins),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)

		r.With(middleware.I18N(opts.DefaultLocale, opts.CountryLookup)).Route("/campaigns", func(r chi.Router) {
			r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/", app.CreateCampaign)
			r.Get("/{id}", app.CampaignStatus)
			r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/{id}/regenerate", app.RegenerateAnchor)
			r.Get("/{id}/export.zip", app.ExportCampaign)
		})
		r.Get("/jobs/{id}", app.JobStatus)
	})

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	return r
}
