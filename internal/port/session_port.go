package port

import (
	"context"

	"github.com/nikolayk812/pos-demo/internal/domain"
)

// SessionStore keeps the current user and system settings of a session.
type SessionStore interface {
	SaveUser(ctx context.Context, sessionID string, user domain.User, token string) error
	User(ctx context.Context, sessionID string) (domain.User, string, error)
	SaveSettings(ctx context.Context, sessionID string, settings domain.Settings) error
	Settings(ctx context.Context, sessionID string) (domain.Settings, error)
	Clear(ctx context.Context, sessionID string) error
}
