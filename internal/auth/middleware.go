package auth

import (
	"log/slog"
	"net/http"

	"github.com/userhub/userhub/internal/platform/httpx"
	"github.com/userhub/userhub/internal/shared"
)

// Middleware wires token checks into HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireSignin rejects requests without a valid bearer token.
func (m Middleware) RequireSignin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := TokenFromHeader(r)
		if err != nil {
			httpx.WriteError(w, r, m.Logger, err)
			return
		}
		claims, err := m.Service.Verify(r.Context(), raw)
		if err != nil {
			httpx.WriteError(w, r, m.Logger, err)
			return
		}
		ctx := shared.ContextWithViewer(r.Context(), &shared.Viewer{UserID: claims.UserID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Viewer attaches the signed-in user when a valid token is presented in the
// header or cookie. It never rejects a request.
func (m Middleware) Viewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := TokenFromRequest(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.Service.Verify(r.Context(), raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("ignore viewer token", slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		ctx := shared.ContextWithViewer(r.Context(), &shared.Viewer{UserID: claims.UserID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HasAuthorization allows the request only when the signed-in user owns the
// resource identified by ownerID.
func (m Middleware) HasAuthorization(ownerID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := shared.ViewerID(r.Context())
			owner := ownerID(r)
			if viewer == "" || owner == "" || viewer != owner {
				httpx.WriteError(w, r, m.Logger, shared.Forbidden("User is not authorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
