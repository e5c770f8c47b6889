package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/userhub/userhub/internal/auth"
	"github.com/userhub/userhub/internal/platform/httpx"
	"github.com/userhub/userhub/internal/shared"
)

// Handler manages the user REST endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   auth.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", httpx.Handle(h.logger, h.list))
		r.Post("/", httpx.Handle(h.logger, h.create))
		r.Route("/{userId}", func(r chi.Router) {
			r.Use(h.userByID)
			r.With(h.guard.RequireSignin).Get("/", httpx.Handle(h.logger, h.read))
			r.With(h.guard.RequireSignin, h.guard.HasAuthorization(profileOwner)).Put("/", httpx.Handle(h.logger, h.update))
			r.With(h.guard.RequireSignin, h.guard.HasAuthorization(profileOwner)).Delete("/", httpx.Handle(h.logger, h.remove))
		})
	})
}

type profileContextKey struct{}

func profileFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(profileContextKey{}).(*User)
	return user
}

func profileOwner(r *http.Request) string {
	if user := profileFromContext(r.Context()); user != nil {
		return user.ID
	}
	return ""
}

// userByID loads the {userId} path parameter into the request context.
func (h *Handler) userByID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.service.Get(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				h.logger.Error("load user", slog.Any("error", err))
			}
			httpx.Error(w, http.StatusBadRequest, "User not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), profileContextKey{}, user)))
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) error {
	users, err := h.service.List(r.Context())
	if err != nil {
		return shared.BadRequest("Could not list users")
	}
	profiles := make([]Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	httpx.JSON(w, http.StatusOK, profiles)
	return nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) error {
	var in CreateInput
	if err := httpx.Decode(w, r, &in); err != nil {
		return shared.BadRequest("Invalid request body")
	}
	if _, err := h.service.Create(r.Context(), in); err != nil {
		if !errors.Is(err, ErrNotifyFailed) {
			return err
		}
		h.logger.Warn("queue welcome email", slog.Any("error", err))
	}
	httpx.Message(w, "Successfully signed up!")
	return nil
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) error {
	httpx.JSON(w, http.StatusOK, profileFromContext(r.Context()).Profile())
	return nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) error {
	var in UpdateInput
	if err := httpx.Decode(w, r, &in); err != nil {
		return shared.BadRequest("Invalid request body")
	}
	updated, err := h.service.Update(r.Context(), profileFromContext(r.Context()), in)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, updated.Profile())
	return nil
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) error {
	deleted, err := h.service.Remove(r.Context(), profileFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.BadRequest("User not found")
		}
		return err
	}
	httpx.JSON(w, http.StatusOK, deleted.Profile())
	return nil
}
