package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/httpx"
)

// contextKey is unexported so no other package can read or overwrite the
// caller stored under it.
type contextKey string

const callerKey contextKey = "caller"

// TokenVerifier is the part of the credential service the gate needs.
type TokenVerifier interface {
	VerifyToken(token string) (Caller, error)
}

// RequireAuth rejects any request without a valid bearer token and stores
// the verified Caller in the request context for the handlers behind it.
//
// Every rejection (no header, wrong scheme, bad signature, expired token)
// produces the same 401 "Authentication invalid", so a client cannot probe
// which check failed. The reason goes to the log only.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, r, logger, apperror.Unauthenticated("Authentication invalid"))
				return
			}

			caller, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", slog.String("error", err.Error()))
				httpx.WriteError(w, r, logger, apperror.Unauthenticated("Authentication invalid"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext returns the authenticated caller, or false on a route
// that is not behind RequireAuth.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey).(Caller)
	return caller, ok && caller.ID != ""
}

// bearerToken extracts <token> from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively, per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
