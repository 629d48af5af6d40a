package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Noor7086/Obyyo-sub002/internal/api/response"
	"github.com/Noor7086/Obyyo-sub002/internal/auth"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
	"github.com/Noor7086/Obyyo-sub002/internal/storage/repository"
)

// WriteError maps domain errors onto HTTP statuses. Unrecognized errors are
// logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lottery.ErrInvalidGame), errors.Is(err, repository.ErrNotFound):
		response.NotFound(w, err)
	case errors.Is(err, lottery.ErrInvalidRequestCount), errors.Is(err, auth.ErrInvalidInput):
		response.BadRequest(w, err)
	case errors.Is(err, lottery.ErrInsufficientPool):
		response.UnprocessableEntity(w, err)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthenticated):
		response.Unauthorized(w, err)
	case errors.Is(err, auth.ErrEmailTaken):
		response.Conflict(w, err)
	case errors.Is(err, auth.ErrRateLimited):
		w.Header().Set("Retry-After", "60")
		response.TooManyRequests(w, err)
	case errors.Is(err, context.DeadlineExceeded):
		response.ServiceUnavailable(w, err)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		w.WriteHeader(499)
	default:
		slog.Error("Request failed", "error", err)
		response.InternalError(w, errors.New("internal server error"))
	}
}
