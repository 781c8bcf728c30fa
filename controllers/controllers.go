package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"

	"movimenta_server/logging"
	"movimenta_server/middleware"
	"movimenta_server/services"
	"movimenta_server/utils"
)

const maxBodyBytes = 1 << 20

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, map[string]string{"status": "healthy"})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure envelope. Unexpected errors are logged and
// reported to Sentry; the caller only sees a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		utils.WriteFailure(w, status, err.Error())
		return
	}
	logging.From(r.Context()).Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("err", err.Error()),
	)
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	utils.WriteFailure(w, status, "internal server error")
}

// decodeJSON reads a JSON body into dst, rejecting oversized or malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", services.ErrInvalid)
		}
		return fmt.Errorf("%w: invalid request payload", services.ErrInvalid)
	}
	return nil
}

// callerID returns the authenticated user id. Routes are always behind
// RequireAuth, so a missing identity is a wiring fault.
func callerID(r *http.Request) (string, error) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return "", errors.New("no identity in request context")
	}
	return id.UserID, nil
}

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", services.ErrInvalid, field)
	}
	return nil
}
