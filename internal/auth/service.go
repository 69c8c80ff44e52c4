package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service provides authentication business logic: resolving a Google profile
// to a local user and minting, resolving, and destroying sessions.
type Service struct {
	repo       Repository
	sessionTTL time.Duration
}

// NewService creates a new auth Service.
func NewService(repo Repository, sessionTTL time.Duration) *Service {
	if sessionTTL == 0 {
		sessionTTL = 12 * time.Hour
	}
	return &Service{
		repo:       repo,
		sessionTTL: sessionTTL,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// ResolveUser finds the user for the given Google claims, creating one on
// first login. An existing user is returned as stored; profile fields are
// set once at creation and not refreshed on later logins.
func (s *Service) ResolveUser(ctx context.Context, claims *GoogleClaims) (*User, error) {
	if claims == nil || claims.Sub == "" {
		return nil, fmt.Errorf("resolve user: missing google subject id")
	}

	existing, err := s.repo.FindUserByGoogleID(ctx, claims.Sub)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	newUser := User{
		ID:          uuid.New(),
		GoogleID:    claims.Sub,
		DisplayName: claims.Name,
		Email:       claims.Email,
		PhotoURL:    claims.Picture,
		CreatedAt:   time.Now(),
	}

	created, err := s.repo.CreateUser(ctx, newUser)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &created, nil
}

// EstablishSession creates a new session for the given user and returns the
// opaque session token. Only the SHA-256 hash of the token is persisted.
func (s *Service) EstablishSession(ctx context.Context, userID uuid.UUID) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	now := time.Now()
	session := Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}

	if err := s.repo.CreateSession(ctx, session, hashToken(token)); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return token, nil
}

// ResolveSession returns the user bound to the token, or nil if the token is
// empty, unknown, expired, or references a user that no longer exists. A
// miss is a normal negative result, not an error.
func (s *Service) ResolveSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}

	session, user, err := s.repo.FindSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	if session == nil || user == nil {
		return nil, nil
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.repo.DeleteSession(ctx, session.ID)
		return nil, nil
	}

	return user, nil
}

// DestroySession invalidates the session bound to the token. Destroying an
// already-invalid or empty token is not an error.
func (s *Service) DestroySession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.DeleteSessionByTokenHash(ctx, hashToken(token))
}

// CleanupExpiredSessions removes all expired sessions from the store.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx)
}

// hashToken returns the SHA-256 hash of the token as a hex string.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
