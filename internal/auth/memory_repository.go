package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores users and sessions in in-process maps, ideal for
// local development or tests. It enforces the same google_id uniqueness as
// the SQL schema.
type InMemoryRepository struct {
	mu             sync.RWMutex
	usersByID      map[uuid.UUID]User
	userIDByGoogle map[string]uuid.UUID
	sessionsByHash map[string]Session
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		usersByID:      make(map[uuid.UUID]User),
		userIDByGoogle: make(map[string]uuid.UUID),
		sessionsByHash: make(map[string]Session),
	}
}

// FindUserByGoogleID returns the user for the Google subject ID, if any.
func (r *InMemoryRepository) FindUserByGoogleID(_ context.Context, googleID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.userIDByGoogle[googleID]
	if !ok {
		return nil, nil
	}
	user := r.usersByID[id]
	return &user, nil
}

// CreateUser stores a new user, rejecting duplicate Google subject IDs.
func (r *InMemoryRepository) CreateUser(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.userIDByGoogle[user.GoogleID]; exists {
		return User{}, ErrDuplicateUser
	}
	r.usersByID[user.ID] = user
	r.userIDByGoogle[user.GoogleID] = user.ID
	return user, nil
}

// CreateSession stores a new session keyed by token hash.
func (r *InMemoryRepository) CreateSession(_ context.Context, session Session, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessionsByHash[tokenHash] = session
	return nil
}

// FindSessionByTokenHash returns the session and its user for the hash.
func (r *InMemoryRepository) FindSessionByTokenHash(_ context.Context, tokenHash string) (*Session, *User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessionsByHash[tokenHash]
	if !ok {
		return nil, nil, nil
	}
	user, ok := r.usersByID[session.UserID]
	if !ok {
		return nil, nil, nil
	}
	return &session, &user, nil
}

// DeleteSession removes a session by ID.
func (r *InMemoryRepository) DeleteSession(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, session := range r.sessionsByHash {
		if session.ID == id {
			delete(r.sessionsByHash, hash)
			break
		}
	}
	return nil
}

// DeleteSessionByTokenHash removes the session bound to the token hash.
func (r *InMemoryRepository) DeleteSessionByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessionsByHash, tokenHash)
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry.
func (r *InMemoryRepository) DeleteExpiredSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for hash, session := range r.sessionsByHash {
		if time.Now().After(session.ExpiresAt) {
			delete(r.sessionsByHash, hash)
			removed++
		}
	}
	return removed, nil
}
