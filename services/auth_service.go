package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/donely-api/dto"
	"github.com/donely-api/lib/mailer"
	"github.com/donely-api/lib/sessions"
	"github.com/donely-api/models"
)

const (
	// sessionTimeout bounds how long ResolveSession may take in total
	sessionTimeout = 5 * time.Second
	sessionTries   = 3
)

var errSessionEnded = errors.New("session ended")

// dummyHash is compared against on unknown emails
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("donely-unknown-account"), bcrypt.DefaultCost)
	if err != nil {
		panic("bcrypt: " + err.Error())
	}
	return hash
})

// AuthConfig holds the token and reset settings of the auth service
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
	ResetTTL time.Duration
	// AppURL is the frontend base used in password reset links
	AppURL string
}

// AuthService issues, validates and revokes tokens and runs the password flows
type AuthService struct {
	profileRepo ProfileStore
	accessRepo  AccessStore
	sessions    sessions.Store
	mailer      mailer.Mailer
	cfg         AuthConfig
	now         func() time.Time
}

// NewAuthService creates a new auth service instance
func NewAuthService(profiles ProfileStore, access AccessStore, store sessions.Store, m mailer.Mailer, cfg AuthConfig) *AuthService {
	return &AuthService{
		profileRepo: profiles,
		accessRepo:  access,
		sessions:    store,
		mailer:      m,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Login authenticates a profile and returns a token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	user, err := s.profileRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Spend the same bcrypt time as a real mismatch so response times don't reveal accounts
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
			return dto.AuthResponse{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if !user.Active {
		return dto.AuthResponse{}, fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}

	if user.Role == models.RoleClient {
		if err := s.accessRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
			log.Printf("Warning: Failed to record last login for %s: %v", user.ID, err)
		}
	}

	token, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

// GenerateToken generates a new JWT token for a profile
func (s *AuthService) GenerateToken(user models.Profile) (string, time.Time, error) {
	if s.cfg.Secret == "" {
		return "", time.Time{}, errors.New("JWT secret is not configured")
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)

	claims := dto.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// parseToken checks the signature and expiry of a token
func (s *AuthService) parseToken(tokenString string) (*dto.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*dto.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}
	return claims, nil
}

// ValidateToken validates a JWT token and returns its claims unless it was revoked
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*dto.TokenClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token has been revoked", ErrUnauthorized)
	}

	// Deactivated or deleted profiles lose access before their token expires
	user, err := s.profileRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}
	return claims, nil
}

// Logout revokes a token until it would have expired anyway.
// Tokens that are already invalid need no revocation.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 || claims.ID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, claims.ID, ttl)
}

// ResolveSession reports the caller's session as authenticated, unauthenticated
// or error. Transient store failures are retried until the deadline.
func (s *AuthService) ResolveSession(ctx context.Context, tokenString string) dto.SessionResponse {
	if tokenString == "" {
		return dto.SessionResponse{State: string(SessionUnauthenticated)}
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return dto.SessionResponse{State: string(SessionUnauthenticated)}
	}

	ctx, cancel := context.WithTimeout(ctx, sessionTimeout)
	defer cancel()

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 100 * time.Millisecond
	expo.MaxInterval = time.Second

	user, err := backoff.Retry(ctx, func() (models.Profile, error) {
		revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			return models.Profile{}, err
		}
		if revoked {
			return models.Profile{}, backoff.Permanent(errSessionEnded)
		}

		user, err := s.profileRepo.FindByID(ctx, claims.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Profile{}, backoff.Permanent(errSessionEnded)
		}
		if err != nil {
			return models.Profile{}, err
		}
		if !user.Active {
			return models.Profile{}, backoff.Permanent(errSessionEnded)
		}
		return user, nil
	},
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(sessionTries),
	)

	switch {
	case errors.Is(err, errSessionEnded):
		return dto.SessionResponse{State: string(SessionUnauthenticated)}
	case err != nil:
		log.Printf("Error resolving session: %v", err)
		return dto.SessionResponse{State: string(SessionError), Error: "session could not be verified, please retry"}
	}

	expiresAt := claims.ExpiresAt.Time
	return dto.SessionResponse{
		State:     string(SessionAuthenticated),
		User:      &user,
		ExpiresAt: &expiresAt,
	}
}

// GetProfile retrieves the profile behind an authenticated request
func (s *AuthService) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	user, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return models.Profile{}, notFound("profile", err)
	}
	return user, nil
}

// ChangePassword verifies the current password and stores the new one. When
// the update itself fails a reset email is sent instead and resetSent is true.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) (resetSent bool, err error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return false, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return false, fmt.Errorf("%w: current password is incorrect", ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	updateErr := s.profileRepo.UpdatePassword(ctx, user.ID, string(hashedPassword))
	if updateErr == nil {
		return false, nil
	}

	log.Printf("Warning: Password update failed for %s, falling back to reset email: %v", user.ID, updateErr)
	if err := s.sendResetLink(ctx, user); err != nil {
		return false, fmt.Errorf("failed to update password: %w", errors.Join(updateErr, err))
	}
	return true, nil
}

// RequestPasswordReset emails a reset link to an active profile. Unknown
// addresses are ignored so callers cannot probe which emails exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) {
	user, err := s.profileRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error looking up profile for password reset: %v", err)
		}
		return
	}
	if !user.Active {
		return
	}
	if err := s.sendResetLink(ctx, user); err != nil {
		log.Printf("Error sending password reset to %s: %v", user.ID, err)
	}
}

// ConfirmPasswordReset consumes a reset token once and sets the new password
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req dto.PasswordResetConfirmRequest) error {
	userID, err := s.sessions.ConsumeResetToken(ctx, req.Token)
	if errors.Is(err, sessions.ErrTokenNotFound) {
		return validationError("reset link is invalid or has expired")
	}
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.profileRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return notFound("profile", err)
	}
	return nil
}

func (s *AuthService) sendResetLink(ctx context.Context, user models.Profile) error {
	token := uuid.NewString()
	if err := s.sessions.SaveResetToken(ctx, token, user.ID, s.cfg.ResetTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := s.cfg.AppURL + "/reset-password?token=" + url.QueryEscape(token)
	return s.mailer.Send(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Reset your Donely password",
		HTML: fmt.Sprintf(`<p>Hello %s,</p><p>Use the link below to choose a new password. It expires in %s.</p><p><a href="%s">Reset password</a></p>`,
			html.EscapeString(user.Name), s.cfg.ResetTTL, html.EscapeString(link)),
	})
}
