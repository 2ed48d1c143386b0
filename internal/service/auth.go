// Package service contains the business logic layer: authentication here,
// list membership in internal/library, aggregation in internal/collection.
//
// Services accept primitives and return domain errors — no HTTP types in
// either direction. The handlers translate both.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/auth"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

// MinPasswordLength mirrors the original sign-up rule.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService orchestrates sign-up, both sign-in flows, and session state.
//
// It is the sole writer of the SessionCell: handlers and other services
// observe the session, only authentication transitions it.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	sessions  *auth.SessionCell
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	sessions *auth.SessionCell,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// AuthResult bundles the user record with the issued session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// SignUp registers an email/password account.
//
// It deliberately does NOT sign the user in: the original flow had new
// accounts confirm out-of-band before the first sign-in, so sign-up
// returning without a session preserves that observable shape.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, apperror.ValidationFailed("email", "enter a valid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateWithPassword(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return user, nil
}

// SignInWithPassword authenticates an email/password account and opens a
// session. Unknown email, Google-only account, and wrong password all
// produce the same Unauthenticated message so the response does not reveal
// which emails are registered.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	badCredentials := &apperror.AppError{
		Err:     apperror.ErrUnauthenticated,
		Message: "invalid email or password",
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, badCredentials
	}
	if user.PasswordHash == "" {
		// Google-only account; there is no password to check.
		return nil, badCredentials
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, badCredentials
	}

	return s.openSession(user)
}

// LoginOrRegisterGoogle completes the Google OAuth callback: upsert the
// account for the Google identity, then open a session. First sign-in
// creates the account; later sign-ins refresh the profile fields.
func (s *AuthService) LoginOrRegisterGoogle(ctx context.Context, gUser *auth.GoogleUser) (*AuthResult, error) {
	if gUser == nil {
		return nil, fmt.Errorf("service/auth: Google user must not be nil")
	}

	user := &model.User{
		Email:     strings.ToLower(gUser.Email),
		GoogleID:  gUser.Sub,
		Name:      gUser.Name,
		AvatarURL: gUser.Picture,
	}
	if err := s.users.UpsertGoogle(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting google user: %w", err)
	}

	return s.openSession(user)
}

// SignOut closes the session. The JWT itself stays valid until expiry;
// signing out means the cell transitions to absent and the handler deletes
// the cookie.
func (s *AuthService) SignOut() {
	s.sessions.Set(nil)
}

// ValidateToken checks a session token and returns the identity it encodes.
func (s *AuthService) ValidateToken(tokenStr string) (*auth.Session, error) {
	userID, email, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}
	return &auth.Session{UserID: userID, Email: email}, nil
}

// GetUserByID returns the full account record; used by /api/me after the
// middleware has validated the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) openSession(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.sessions.Set(&auth.Session{UserID: user.ID, Email: user.Email})

	s.logger.Info("user signed in",
		slog.String("userID", user.ID),
	)

	return &AuthResult{User: user, Token: token}, nil
}
