package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a Google-authenticated user of the application.
type User struct {
	ID          uuid.UUID
	GoogleID    string
	DisplayName string
	Email       string
	PhotoURL    string
	CreatedAt   time.Time
}

// Session represents an authenticated browser session.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// GoogleClaims contains the relevant claims from a Google ID token.
type GoogleClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
