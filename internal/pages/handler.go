package pages

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/userhub/userhub/internal/shared"
	"github.com/userhub/userhub/internal/users"
	"github.com/userhub/userhub/internal/view"
)

// Directory supplies the user records shown on pages.
type Directory interface {
	List(ctx context.Context) ([]users.User, error)
	Get(ctx context.Context, id string) (*users.User, error)
}

// ProfileView is rendered by the profile page.
type ProfileView struct {
	User  users.Profile
	Owner bool
}

// loader fetches page data. A nil loader renders the page without data.
type loader func(r *http.Request, rc *RouterContext) (any, error)

type page struct {
	pattern  string
	template string
	private  bool
	load     loader
}

// Handler renders the server side pages.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	directory Directory
	title     string
	pages     []page
}

// NewHandler builds the page handler.
func NewHandler(logger *slog.Logger, templates *view.Engine, directory Directory, title string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{logger: logger, templates: templates, directory: directory, title: title}
	h.pages = []page{
		{pattern: "/", template: "home"},
		{pattern: "/users", template: "users", load: h.loadUsers},
		{pattern: "/signup", template: "signup"},
		{pattern: "/signin", template: "signin"},
		{pattern: "/user/edit/{userId}", template: "edit_profile", private: true, load: h.loadEditProfile},
		{pattern: "/user/{userId}", template: "profile", private: true, load: h.loadProfile},
	}
	return h
}

// MountRoutes registers every page on r.
func (h *Handler) MountRoutes(r chi.Router) {
	for _, p := range h.pages {
		r.Get(p.pattern, h.serve(p))
	}
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusNotFound, "not_found", nil)
}

func (h *Handler) serve(p page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := &RouterContext{ViewerID: shared.ViewerID(r.Context())}
		if p.private && rc.ViewerID == "" {
			rc.Redirect("/signin")
		}
		var data any
		if !rc.Redirected() && p.load != nil {
			var err error
			data, err = p.load(r, rc)
			if errors.Is(err, shared.ErrNotFound) {
				h.NotFound(w, r)
				return
			}
			if err != nil {
				h.logger.Error("load page", slog.String("page", p.template), slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}
		if rc.Redirected() {
			http.Redirect(w, r, rc.URL, http.StatusSeeOther)
			return
		}
		h.write(w, r, http.StatusOK, p.template, data)
	}
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	err := h.templates.Render(w, status, name, view.TemplateData{
		Title:       h.title,
		CurrentPath: r.URL.Path,
		ViewerID:    shared.ViewerID(r.Context()),
		Data:        data,
	})
	if err != nil {
		h.logger.Error("render page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) loadUsers(r *http.Request, _ *RouterContext) (any, error) {
	list, err := h.directory.List(r.Context())
	if err != nil {
		return nil, err
	}
	profiles := make([]users.Profile, 0, len(list))
	for i := range list {
		profiles = append(profiles, list[i].Profile())
	}
	return profiles, nil
}

func (h *Handler) loadProfile(r *http.Request, rc *RouterContext) (any, error) {
	user, err := h.directory.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		return nil, err
	}
	return ProfileView{User: user.Profile(), Owner: rc.ViewerID == user.ID}, nil
}

func (h *Handler) loadEditProfile(r *http.Request, _ *RouterContext) (any, error) {
	user, err := h.directory.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}
