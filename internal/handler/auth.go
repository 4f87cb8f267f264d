package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/auth"
	"github.com/sakif/jobs-api/internal/httpx"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/service"
)

// AuthService is the identity behaviour the handlers need.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	Me(ctx context.Context, userID string) (*model.User, error)
	LoginWithGitHub(ctx context.Context, gh *auth.GitHubUser) (*service.AuthResult, error)
}

// GitHubAuthenticator runs the GitHub OAuth exchange.
type GitHubAuthenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubUser, error)
}

const oauthStateCookie = "oauth_state"

// AuthHandler serves /api/v1/auth.
//
//   - Register / Login: public, return {user, token}
//   - Me: behind RequireAuth
//   - GitHubLogin / GitHubCallback: only mounted when github is non-nil
type AuthHandler struct {
	users  AuthService
	github GitHubAuthenticator
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. github may be nil, which turns
// GitHub sign-in off.
func NewAuthHandler(users AuthService, github GitHubAuthenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, github: github, logger: logger}
}

// Routes mounts the public auth endpoints on r. requireAuth guards /me.
func (h *AuthHandler) Routes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Post("/register", httpx.Handle(h.logger, h.Register))
	r.Post("/login", httpx.Handle(h.logger, h.Login))
	r.With(requireAuth).Get("/me", httpx.Handle(h.logger, h.Me))

	if h.github != nil {
		r.Get("/github/login", h.GitHubLogin)
		r.Get("/github/callback", httpx.Handle(h.logger, h.GitHubCallback))
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) error {
	var in service.RegisterInput
	if err := httpx.Decode(w, r, &in); err != nil {
		return err
	}

	res, err := h.users.Register(r.Context(), in)
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusCreated, newAuthResponse(res))
	return nil
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var in service.LoginInput
	if err := httpx.Decode(w, r, &in); err != nil {
		return err
	}

	res, err := h.users.Login(r.Context(), in)
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, newAuthResponse(res))
	return nil
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) error {
	id, err := callerID(r)
	if err != nil {
		return err
	}

	user, err := h.users.Me(r.Context(), id)
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, meResponse{User: user})
	return nil
}

// GitHubLogin redirects the browser to GitHub.
//
// CSRF PROTECTION VIA STATE:
// A random state goes into a short-lived HttpOnly cookie and into the
// authorization URL. The callback only proceeds when both match, proving the
// flow was started here.
func (h *AuthHandler) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// GitHubCallback finishes the OAuth flow and answers like Login.
func (h *AuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) error {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("github callback: state mismatch")
		return apperror.BadRequest("Invalid OAuth state")
	}

	// single use
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("github callback: authorization denied", slog.String("error", errParam))
		return apperror.Unauthenticated("GitHub authorization denied")
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return apperror.BadRequest("Missing OAuth code")
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		return err
	}

	res, err := h.users.LoginWithGitHub(r.Context(), ghUser)
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, newAuthResponse(res))
	return nil
}
