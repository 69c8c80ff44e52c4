package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestInMemoryRepositoryCreateAndFindUser(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	user := User{
		ID:          uuid.New(),
		GoogleID:    "sub-1",
		DisplayName: "Ada Lovelace",
		Email:       "ada@example.com",
		PhotoURL:    "http://x/a.png",
		CreatedAt:   time.Now(),
	}

	if _, err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	found, err := repo.FindUserByGoogleID(ctx, "sub-1")
	if err != nil {
		t.Fatalf("FindUserByGoogleID returned error: %v", err)
	}
	if found == nil || found.ID != user.ID {
		t.Fatalf("expected user %s, got %+v", user.ID, found)
	}

	missing, err := repo.FindUserByGoogleID(ctx, "sub-2")
	if err != nil {
		t.Fatalf("FindUserByGoogleID returned error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected no user for unknown google id, got %+v", missing)
	}
}

func TestInMemoryRepositoryRejectsDuplicateGoogleID(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	first := User{ID: uuid.New(), GoogleID: "sub-1"}
	if _, err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	second := User{ID: uuid.New(), GoogleID: "sub-1"}
	if _, err := repo.CreateUser(ctx, second); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestInMemoryRepositoryConcurrentFirstLogin(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	results := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateUser(ctx, User{ID: uuid.New(), GoogleID: "sub-race"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateUser):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("expected exactly one successful create, got %d", successes)
	}
	if conflicts != writers-1 {
		t.Fatalf("expected %d conflicts, got %d", writers-1, conflicts)
	}
}

func TestInMemoryRepositorySessionLifecycle(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	user := User{ID: uuid.New(), GoogleID: "sub-1"}
	if _, err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	session := Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	if err := repo.CreateSession(ctx, session, "hash-1"); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	foundSession, foundUser, err := repo.FindSessionByTokenHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("FindSessionByTokenHash returned error: %v", err)
	}
	if foundSession == nil || foundSession.ID != session.ID {
		t.Fatalf("expected session %s, got %+v", session.ID, foundSession)
	}
	if foundUser == nil || foundUser.ID != user.ID {
		t.Fatalf("expected user %s, got %+v", user.ID, foundUser)
	}

	if err := repo.DeleteSessionByTokenHash(ctx, "hash-1"); err != nil {
		t.Fatalf("DeleteSessionByTokenHash returned error: %v", err)
	}
	gone, _, err := repo.FindSessionByTokenHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("FindSessionByTokenHash returned error: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected session to be deleted, got %+v", gone)
	}

	// Deleting an unknown hash is a no-op.
	if err := repo.DeleteSessionByTokenHash(ctx, "hash-1"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestInMemoryRepositoryDeleteExpiredSessions(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	user := User{ID: uuid.New(), GoogleID: "sub-1"}
	if _, err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	expired := Session{ID: uuid.New(), UserID: user.ID, ExpiresAt: time.Now().Add(-time.Minute)}
	live := Session{ID: uuid.New(), UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.CreateSession(ctx, expired, "hash-expired"); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if err := repo.CreateSession(ctx, live, "hash-live"); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	removed, err := repo.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed session, got %d", removed)
	}

	remaining, _, err := repo.FindSessionByTokenHash(ctx, "hash-live")
	if err != nil {
		t.Fatalf("FindSessionByTokenHash returned error: %v", err)
	}
	if remaining == nil {
		t.Fatal("expected live session to survive cleanup")
	}
}
