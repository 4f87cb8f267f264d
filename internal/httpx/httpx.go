// Package httpx holds the HTTP plumbing shared by handlers and middleware:
// JSON encoding and decoding, the error normalizer, and the adapter that lets
// handlers return errors instead of writing them.
//
// CONSISTENT ERROR FORMAT:
// Every failure leaves the API as the same shape, whatever its origin:
//
//	{"msg": "No job with id cv37rs3pp9olc6atsptg"}
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/jobs-api/internal/apperror"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

// JSON writes payload with the given status. A nil payload writes no body.
//
// HEADER ORDER MATTERS:
// Headers and status must be set before the first Write; after that they are
// already on the wire and later changes are silently dropped.
func JSON(w http.ResponseWriter, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"msg":"Something went wrong try again later"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// maxBodyBytes caps request bodies; job and auth payloads are tiny.
const maxBodyBytes = 1 << 20

// Decode reads a JSON body into dst. Anything that is not a single JSON
// value becomes BadRequest("Invalid JSON body").
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperror.BadRequest("Invalid JSON body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperror.BadRequest("Invalid JSON body")
	}
	return nil
}

// HandlerFunc is an http.HandlerFunc that reports failure by returning it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to net/http. A returned error goes through WriteError,
// so handlers never pick status codes for failures themselves.
func Handle(logger *slog.Logger, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			WriteError(w, r, logger, err)
		}
	}
}
