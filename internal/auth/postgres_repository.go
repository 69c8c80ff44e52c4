package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// pqUniqueViolation is the PostgreSQL error code for unique_violation.
const pqUniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindUserByGoogleID looks up a user by their Google subject ID.
func (r *PostgresRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*User, error) {
	const query = `
		SELECT id, google_id, display_name, email, photo_url, created_at
		FROM users
		WHERE google_id = $1
	`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, googleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row.toUser(), nil
}

// CreateUser inserts a new user. A concurrent insert for the same google_id
// surfaces as ErrDuplicateUser via the unique index.
func (r *PostgresRepository) CreateUser(ctx context.Context, user User) (User, error) {
	const query = `
		INSERT INTO users (id, google_id, display_name, email, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.GoogleID,
		user.DisplayName,
		user.Email,
		user.PhotoURL,
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return User{}, ErrDuplicateUser
		}
		return User{}, err
	}

	return user, nil
}

// CreateSession inserts a new session keyed by the token hash.
func (r *PostgresRepository) CreateSession(ctx context.Context, session Session, tokenHash string) error {
	const query = `
		INSERT INTO user_sessions (id, user_id, session_token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		tokenHash,
		session.ExpiresAt,
		session.CreatedAt,
	)
	return err
}

// FindSessionByTokenHash looks up a session and its user by token hash.
func (r *PostgresRepository) FindSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, *User, error) {
	const query = `
		SELECT
			s.id, s.user_id, s.expires_at, s.created_at,
			u.google_id, u.display_name, u.email, u.photo_url,
			u.created_at AS user_created_at
		FROM user_sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.session_token_hash = $1
	`

	var row sessionUserRow
	if err := r.db.GetContext(ctx, &row, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	return row.toSession(), row.toUser(), nil
}

// DeleteSession removes a session by ID.
func (r *PostgresRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM user_sessions WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// DeleteSessionByTokenHash removes the session bound to the token hash.
// Deleting a hash with no matching session is a no-op.
func (r *PostgresRepository) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	const query = `DELETE FROM user_sessions WHERE session_token_hash = $1`
	_, err := r.db.ExecContext(ctx, query, tokenHash)
	return err
}

// DeleteExpiredSessions removes all expired sessions.
func (r *PostgresRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	const query = `DELETE FROM user_sessions WHERE expires_at < $1`
	result, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// userRow is a database row representation of User.
type userRow struct {
	ID          uuid.UUID `db:"id"`
	GoogleID    string    `db:"google_id"`
	DisplayName string    `db:"display_name"`
	Email       string    `db:"email"`
	PhotoURL    string    `db:"photo_url"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *userRow) toUser() *User {
	return &User{
		ID:          r.ID,
		GoogleID:    r.GoogleID,
		DisplayName: r.DisplayName,
		Email:       r.Email,
		PhotoURL:    r.PhotoURL,
		CreatedAt:   r.CreatedAt,
	}
}

// sessionUserRow is a database row for the session + user join query.
type sessionUserRow struct {
	// Session fields
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`

	// User fields
	GoogleID      string    `db:"google_id"`
	DisplayName   string    `db:"display_name"`
	Email         string    `db:"email"`
	PhotoURL      string    `db:"photo_url"`
	UserCreatedAt time.Time `db:"user_created_at"`
}

func (r *sessionUserRow) toSession() *Session {
	return &Session{
		ID:        r.ID,
		UserID:    r.UserID,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
}

func (r *sessionUserRow) toUser() *User {
	return &User{
		ID:          r.UserID,
		GoogleID:    r.GoogleID,
		DisplayName: r.DisplayName,
		Email:       r.Email,
		PhotoURL:    r.PhotoURL,
		CreatedAt:   r.UserCreatedAt,
	}
}
