package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/jobs-api/internal/apperror"
)

const genericMessage = "Something went wrong try again later"

// Classify maps any error onto a status code and a client-safe message.
//
// CLASSIFICATION ORDER:
//  1. Explicit domain errors (NotFound, BadRequest, Unauthenticated) keep
//     their own status and message. They are recognised by the Explicit
//     marker, never by message text.
//  2. Duplicate key → 400, naming the conflicting fields.
//  3. Validation → 400, every field message joined with commas.
//  4. Cast (malformed id) → 404, naming the value.
//  5. Anything else → 500 with a generic message. Internal details stay in
//     the log.
func Classify(err error) (int, string) {
	appErr, ok := apperror.As(err)
	if !ok {
		return http.StatusInternalServerError, genericMessage
	}

	if appErr.Explicit {
		switch appErr.Kind {
		case apperror.KindNotFound:
			return http.StatusNotFound, appErr.Message
		case apperror.KindBadRequest:
			return http.StatusBadRequest, appErr.Message
		case apperror.KindUnauthenticated:
			return http.StatusUnauthorized, appErr.Message
		}
	}

	switch appErr.Kind {
	case apperror.KindDuplicateKey:
		return http.StatusBadRequest, fmt.Sprintf(
			"Duplicate value entered for %s field, please choose another value",
			strings.Join(appErr.Fields, ", "),
		)
	case apperror.KindValidation:
		return http.StatusBadRequest, appErr.Message
	case apperror.KindCast:
		return http.StatusNotFound, fmt.Sprintf("No item found with id : %s", appErr.Value)
	}

	return http.StatusInternalServerError, genericMessage
}

// WriteError classifies err, logs it, and writes the {"msg": ...} body.
// Client errors log at Warn, server errors at Error; the log line carries the
// full wrapped error while the client only sees the classified message.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, msg := Classify(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.LogAttrs(r.Context(), level, "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("requestID", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	)

	JSON(w, status, ErrorResponse{Msg: msg})
}
