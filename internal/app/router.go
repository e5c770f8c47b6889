package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/userhub/userhub/internal/auth"
	"github.com/userhub/userhub/internal/observability"
	"github.com/userhub/userhub/internal/pages"
	"github.com/userhub/userhub/internal/platform/httpx"
	"github.com/userhub/userhub/internal/users"
	"github.com/userhub/userhub/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	AuthMiddleware auth.Middleware
	UsersHandler   *users.Handler
	PagesHandler   *pages.Handler
	JobHandler     *jobs.Handler
	Assets         http.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Assets != nil {
		r.Handle("/dist/*", params.Assets)
	}

	params.UsersHandler.MountRoutes(r)
	params.AuthHandler.MountRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.Viewer)
		params.PagesHandler.MountRoutes(r)
	})
	r.NotFound(params.AuthMiddleware.Viewer(http.HandlerFunc(params.PagesHandler.NotFound)).ServeHTTP)

	return r
}
