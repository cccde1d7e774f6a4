// Package auth logs cashiers in against the remote API and keeps their
// session in a port.SessionStore.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-demo/internal/api"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/port"
	"github.com/nikolayk812/pos-demo/internal/session"
	"go.uber.org/zap"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Remote is the part of the API client the auth flow needs.
type Remote interface {
	Login(ctx context.Context, creds api.Credentials) (api.LoginResult, error)
	Settings(ctx context.Context) (domain.Settings, error)
}

// RemoteFactory returns the remote API authenticated as token.
type RemoteFactory func(token string) Remote

type Service struct {
	remote RemoteFactory
	store  port.SessionStore
	logger *zap.Logger
}

func NewService(remote RemoteFactory, store port.SessionStore, logger *zap.Logger) *Service {
	return &Service{
		remote: remote,
		store:  store,
		logger: logger,
	}
}

// Login stores the user under a new session id. Settings are best effort:
// a failure to fetch them does not fail the login.
func (s *Service) Login(ctx context.Context, creds api.Credentials) (domain.Session, error) {
	result, err := s.remote("").Login(ctx, creds)
	if err != nil {
		return domain.Session{}, fmt.Errorf("remote.Login: %w", err)
	}

	sess := domain.Session{
		ID:    uuid.NewString(),
		Token: result.Token,
		User:  result.User,
	}

	if err := s.store.SaveUser(ctx, sess.ID, sess.User, sess.Token); err != nil {
		return domain.Session{}, fmt.Errorf("store.SaveUser: %w", err)
	}

	settings, err := s.remote(sess.Token).Settings(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch system settings",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return sess, nil
	}

	if err := s.store.SaveSettings(ctx, sess.ID, settings); err != nil {
		s.logger.Warn("failed to store system settings",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return sess, nil
	}

	sess.Settings = &settings

	return sess, nil
}

// Restore rebuilds a session from the store. A missing user means the
// session is gone; missing settings are tolerated.
func (s *Service) Restore(ctx context.Context, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		return domain.Session{}, ErrNotLoggedIn
	}

	user, token, err := s.store.User(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return domain.Session{}, ErrNotLoggedIn
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("store.User: %w", err)
	}

	sess := domain.Session{
		ID:    sessionID,
		Token: token,
		User:  user,
	}

	settings, err := s.store.Settings(ctx, sessionID)
	switch {
	case err == nil:
		sess.Settings = &settings
	case errors.Is(err, session.ErrNotFound):
	default:
		return domain.Session{}, fmt.Errorf("store.Settings: %w", err)
	}

	return sess, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrNotLoggedIn
	}

	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("store.Clear: %w", err)
	}

	return nil
}
