package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/userhub/userhub/internal/shared"
)

// HandlerFunc is an http handler that reports failures by returning them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

type named interface {
	Name() string
}

// Handle adapts fn to http.HandlerFunc, routing returned errors through WriteError.
func Handle(logger *slog.Logger, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			WriteError(w, r, logger, err)
		}
	}
}

// WriteError is the application wide error handler.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var n named
	if errors.As(err, &n) && n.Name() == shared.UnauthorizedErrorName {
		message := err.Error()
		if inner, ok := n.(error); ok {
			message = inner.Error()
		}
		Error(w, http.StatusUnauthorized, n.Name()+": "+message)
		return
	}
	var appErr *shared.Error
	if errors.As(err, &appErr) {
		Error(w, appErr.Status, appErr.Message)
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("unhandled request error", slog.String("path", r.URL.Path), slog.Any("error", err))
	Error(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
