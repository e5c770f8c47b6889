package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/userhub/userhub/internal/platform/httpx"
	"github.com/userhub/userhub/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger  *slog.Logger
	service *Service
	secure  bool
}

// NewHandler constructs a Handler instance. secure marks the token cookie Secure.
func NewHandler(logger *slog.Logger, service *Service, secure bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, secure: secure}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/signin", httpx.Handle(h.logger, h.signin))
	r.Get("/auth/signout", httpx.Handle(h.logger, h.signout))
}

type signinForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) error {
	var form signinForm
	if err := httpx.Decode(w, r, &form); err != nil {
		return shared.Unauthenticated("Could not sign in", err)
	}
	result, claims, err := h.service.Signin(r.Context(), form.Email, form.Password)
	if err != nil {
		return err
	}
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if claims.ExpiresAt != nil {
		cookie.Expires = claims.ExpiresAt.Time
	}
	http.SetCookie(w, cookie)
	httpx.JSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) signout(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.Signout(r.Context(), TokenFromRequest(r)); err != nil && h.logger != nil {
		h.logger.Warn("revoke token", slog.Any("error", err))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.Message(w, "signed out")
	return nil
}
