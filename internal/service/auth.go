package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/auth"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/repository"
)

// Credentials is the credential service the identity flows depend on.
// auth.Credentials is the production implementation.
type Credentials interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) error
	IssueToken(userID, name string) (string, error)
	VerifyToken(token string) (auth.Caller, error)
}

// AuthService implements registration, login and GitHub sign-in.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                               ↘ Credentials (bcrypt + JWT)
type AuthService struct {
	users  repository.UserRepository
	creds  Credentials
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, creds Credentials, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, creds: creds, logger: logger}
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult bundles the user and a freshly issued token.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register validates, hashes and stores a new user, then issues a token.
//
// There is no "does this email exist?" query first: the unique index decides,
// and the store reports a taken email as a duplicate key.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	user := &model.User{
		Name:  strings.TrimSpace(in.Name),
		Email: model.NormalizeEmail(in.Email),
	}
	if err := user.ValidateRegistration(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed(apperror.Violation{
				Field:   "password",
				Message: fmt.Sprintf("Password must be %d bytes or fewer", auth.MaxPasswordBytes),
			})
		}
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: registering %s: %w", user.Email, err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return s.issue(user)
}

// Login checks an email/password pair.
//
// An unknown email and a wrong password produce the same error, so the
// response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := model.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperror.BadRequest("Please provide email and password")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated("Invalid Credentials")
		}
		return nil, fmt.Errorf("service/auth: finding user: %w", err)
	}

	if err := s.creds.Verify(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.Unauthenticated("Invalid Credentials")
		}
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}

	return s.issue(user)
}

// Me returns the full record of the authenticated caller.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, errors.New("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// A valid token for a user that no longer exists.
			return nil, apperror.Unauthenticated("Authentication invalid")
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", userID, err)
	}
	return user, nil
}

// LoginWithGitHub signs in the account whose email matches the GitHub
// profile, creating one on first sign-in.
//
// Accounts created this way get a random password nobody knows, so they can
// only sign in through GitHub until the password is changed.
func (s *AuthService) LoginWithGitHub(ctx context.Context, gh *auth.GitHubUser) (*AuthResult, error) {
	if gh == nil {
		return nil, errors.New("service/auth: GitHub user must not be nil")
	}

	email := model.NormalizeEmail(gh.Email)
	if email == "" {
		return nil, apperror.BadRequest("GitHub account has no verified email")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return s.issue(user)
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/auth: finding GitHub user: %w", err)
	}

	hash, err := s.creds.Hash(rand.Text())
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing placeholder password: %w", err)
	}

	user = &model.User{
		Name:         githubName(gh),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent first sign-in: use the winner's row.
		if errors.Is(err, apperror.ErrDuplicateKey) {
			existing, getErr := s.users.GetUserByEmail(ctx, email)
			if getErr != nil {
				return nil, fmt.Errorf("service/auth: re-reading GitHub user: %w", getErr)
			}
			return s.issue(existing)
		}
		return nil, fmt.Errorf("service/auth: creating GitHub user: %w", err)
	}

	s.logger.Info("user registered via GitHub",
		slog.String("userID", user.ID),
		slog.Int64("githubID", gh.ID),
	)
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.creds.IssueToken(user.ID, user.Name)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// githubName fits the GitHub display name into the name length limits.
func githubName(gh *auth.GitHubUser) string {
	name := gh.DisplayName()
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		name = string([]rune(name)[:model.MaxNameLength])
	}
	for utf8.RuneCountInString(name) < model.MinNameLength {
		name += "_"
	}
	return name
}
