package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/config"
	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/repository"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = apperrors.NewUnauthorized("invalid login credentials")

// CredentialService is the credential backend: identities, password checks and the session registry.
type CredentialService struct {
	identities repository.IdentityRepository
	sessions   repository.SessionRepository
	tokens     *TokenManager
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// CredentialDependencies encapsulates storage requirements for the credential backend.
type CredentialDependencies struct {
	IdentityRepo repository.IdentityRepository
	SessionRepo  repository.SessionRepository
}

// NewCredentialService builds the service.
func NewCredentialService(cfg config.AuthConfig, deps CredentialDependencies, logger *zap.Logger) *CredentialService {
	return &CredentialService{
		identities: deps.IdentityRepo,
		sessions:   deps.SessionRepo,
		tokens:     NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// SignIn checks the password and registers a new session.
func (s *CredentialService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	identity, err := s.identities.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := ComparePassword(identity.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.GenerateToken(sessionID, identity.ID, identity.Email, now)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:          sessionID,
		UserID:      identity.ID,
		Email:       identity.Email,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Debug("session issued", zap.String("session_id", sessionID), zap.String("user_id", identity.ID))
	return session, nil
}

// Verify returns the live session for token, or nil when the token is malformed, expired or revoked.
// Only storage failures are errors.
func (s *CredentialService) Verify(ctx context.Context, token string) (*domain.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, nil
	}

	stored, err := s.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if stored.UserID != claims.Subject {
		return nil, nil
	}

	stored.AccessToken = token
	return stored, nil
}

// Revoke ends the session behind token. Unknown tokens are ignored.
func (s *CredentialService) Revoke(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

// RevokeAll ends every session of a user.
func (s *CredentialService) RevokeAll(ctx context.Context, userID string) error {
	return s.sessions.DeleteByUserID(ctx, userID)
}

// CreateIdentity registers a new credential. A taken email is a conflict.
func (s *CredentialService) CreateIdentity(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("valid email required", nil)
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{Email: email, PasswordHash: hash}
	if err := s.identities.Create(ctx, identity); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, err
	}
	return identity, nil
}

// EnsureIdentity returns the identity registered for email, creating it with password when absent.
// An existing identity keeps its current password.
func (s *CredentialService) EnsureIdentity(ctx context.Context, email, password string) (*domain.Identity, bool, error) {
	existing, err := s.identities.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	created, err := s.CreateIdentity(ctx, email, password)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
