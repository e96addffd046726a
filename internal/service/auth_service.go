// Package service holds the business logic between HTTP handlers and repositories.
package service

import (
	"context"
	"errors"
	"log/slog"

	"tally/internal/auth"
	"tally/internal/cache"
	"tally/internal/middleware"
	"tally/internal/models"
	"tally/internal/observability"
	"tally/internal/repository"
	"tally/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

const friendCodeAttempts = 5

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Password string `json:"password" validate:"required,min=8,max=72,bcryptlen"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService registers accounts and issues and revokes tokens.
type AuthService struct {
	userRepo      repository.UserRepository
	tokens        *auth.TokenManager
	cache         *cache.Cache
	newFriendCode func() string
}

// NewAuthService returns a new AuthService. c may be nil.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, c *cache.Cache) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokens:        tokens,
		cache:         c,
		newFriendCode: auth.NewFriendCode,
	}
}

var errInvalidCredentials = models.NewValidationError("Invalid credentials")

// dummyHash is compared against when the username is unknown so both failures cost one bcrypt run.
var dummyHash, _ = auth.HashPassword("tally-dummy-password")

// Register creates an account with a fresh friend code.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	span, ctx := observability.StartSpan(ctx, "AuthService.Register")
	defer func() {
		span.End(err)
		observability.AuthEvents.WithLabelValues("register", outcome(err)).Inc()
	}()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, models.NewValidationError("password is too long")
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for attempt := 1; attempt <= friendCodeAttempts; attempt++ {
		user = &models.User{
			Username:     in.Username,
			PasswordHash: hash,
			FriendCode:   s.newFriendCode(),
		}
		err = s.userRepo.Create(ctx, user)
		if !errors.Is(err, repository.ErrFriendCodeTaken) {
			break
		}
		middleware.Logger.WarnContext(ctx, "friend code collision, retrying", slog.Int("attempt", attempt))
	}
	if errors.Is(err, repository.ErrFriendCodeTaken) {
		return nil, models.NewInternalError(err)
	}
	if err != nil {
		return nil, err
	}

	span.AddAttributes(attribute.Int("user.id", int(user.ID)))
	middleware.Logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// Login checks credentials and returns a signed token.
// Unknown users and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (token string, user *models.User, err error) {
	span, ctx := observability.StartSpan(ctx, "AuthService.Login")
	defer func() {
		span.End(err)
		observability.AuthEvents.WithLabelValues("login", outcome(err)).Inc()
	}()

	if err := validation.Struct(in); err != nil {
		return "", nil, err
	}

	user, err = s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		auth.CheckPassword(dummyHash, in.Password)
		return "", nil, errInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return "", nil, errInvalidCredentials
	}

	token, _, err = s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

// Authenticate parses a bearer token and refuses revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, models.NewUnauthenticatedError("Invalid or expired token")
	}

	if s.cache.IsRevoked(ctx, claims.ID) {
		return nil, models.NewUnauthenticatedError("Token has been revoked")
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.cache.Revoke(ctx, claims.ID, s.tokens.Remaining(claims)); err != nil {
		return models.NewInternalError(err)
	}
	observability.AuthEvents.WithLabelValues("logout", "success").Inc()
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
