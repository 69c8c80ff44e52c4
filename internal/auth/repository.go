package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDuplicateUser is returned when a user with the same Google subject ID
// already exists. The second writer of a concurrent first-login race
// observes this error; the unique index keeps the invariant.
var ErrDuplicateUser = errors.New("user already exists for google id")

// Repository defines the interface for user and session persistence.
type Repository interface {
	// User operations
	FindUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	CreateUser(ctx context.Context, user User) (User, error)

	// Session operations
	CreateSession(ctx context.Context, session Session, tokenHash string) error
	FindSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, *User, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
