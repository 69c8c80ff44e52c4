package http

import (
	"context"
	"io"
	"log/slog"

	"gatehouse/internal/auth"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authRepoStub struct {
	findUserByGoogleID       func(ctx context.Context, googleID string) (*auth.User, error)
	createUser               func(ctx context.Context, user auth.User) (auth.User, error)
	createSession            func(ctx context.Context, session auth.Session, tokenHash string) error
	findSessionByHash        func(ctx context.Context, tokenHash string) (*auth.Session, *auth.User, error)
	deleteSession            func(ctx context.Context, id uuid.UUID) error
	deleteSessionByTokenHash func(ctx context.Context, tokenHash string) error
	deleteExpiredSessions    func(ctx context.Context) (int64, error)
}

func (r *authRepoStub) FindUserByGoogleID(ctx context.Context, googleID string) (*auth.User, error) {
	if r.findUserByGoogleID != nil {
		return r.findUserByGoogleID(ctx, googleID)
	}
	return nil, nil
}

func (r *authRepoStub) CreateUser(ctx context.Context, user auth.User) (auth.User, error) {
	if r.createUser != nil {
		return r.createUser(ctx, user)
	}
	return user, nil
}

func (r *authRepoStub) CreateSession(ctx context.Context, session auth.Session, tokenHash string) error {
	if r.createSession != nil {
		return r.createSession(ctx, session, tokenHash)
	}
	return nil
}

func (r *authRepoStub) FindSessionByTokenHash(ctx context.Context, tokenHash string) (*auth.Session, *auth.User, error) {
	if r.findSessionByHash != nil {
		return r.findSessionByHash(ctx, tokenHash)
	}
	return nil, nil, nil
}

func (r *authRepoStub) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if r.deleteSession != nil {
		return r.deleteSession(ctx, id)
	}
	return nil
}

func (r *authRepoStub) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	if r.deleteSessionByTokenHash != nil {
		return r.deleteSessionByTokenHash(ctx, tokenHash)
	}
	return nil
}

func (r *authRepoStub) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	if r.deleteExpiredSessions != nil {
		return r.deleteExpiredSessions(ctx)
	}
	return 0, nil
}

type fakeGoogleAuthenticator struct {
	authURLBase    string
	lastState      string
	exchangeClaims *auth.GoogleClaims
	exchangeErr    error
}

func (f *fakeGoogleAuthenticator) AuthURL(state string) string {
	f.lastState = state
	if f.authURLBase == "" {
		f.authURLBase = "https://accounts.google.com/auth?state="
	}
	return f.authURLBase + state
}

func (f *fakeGoogleAuthenticator) Exchange(ctx context.Context, code string) (*auth.GoogleClaims, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeClaims, nil
}
