package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/port"
	"github.com/redis/go-redis/v9"
)

var _ port.SessionStore = (*Redis)(nil)

const (
	maxRetries      = 3
	minRetryBackoff = 100 * time.Millisecond
	maxRetryBackoff = 300 * time.Millisecond
	dialTimeout     = 5 * time.Second
	readTimeout     = 3 * time.Second
	writeTimeout    = 3 * time.Second
)

// Redis stores each session entry as a JSON value that expires after ttl,
// so a session outlives reloads but not an idle register.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// ConnectRedis connects to the Redis server and pings it.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              db,
		MaxRetries:      maxRetries,
		MinRetryBackoff: minRetryBackoff,
		MaxRetryBackoff: maxRetryBackoff,
		DialTimeout:     dialTimeout,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("client.Ping: %w", err)
	}

	return client, nil
}

func (r *Redis) SaveUser(ctx context.Context, sessionID string, user domain.User, token string) error {
	return r.set(ctx, sessionID, keyUser, userEntry{User: user, Token: token})
}

func (r *Redis) User(ctx context.Context, sessionID string) (domain.User, string, error) {
	var entry userEntry
	if err := r.get(ctx, sessionID, keyUser, &entry); err != nil {
		return domain.User{}, "", err
	}

	return entry.User, entry.Token, nil
}

func (r *Redis) SaveSettings(ctx context.Context, sessionID string, settings domain.Settings) error {
	return r.set(ctx, sessionID, keySettings, settings)
}

func (r *Redis) Settings(ctx context.Context, sessionID string) (domain.Settings, error) {
	var settings domain.Settings
	if err := r.get(ctx, sessionID, keySettings, &settings); err != nil {
		return domain.Settings{}, err
	}

	return settings, nil
}

func (r *Redis) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	if err := r.client.Del(ctx, r.key(sessionID, keyUser), r.key(sessionID, keySettings)).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}

func (r *Redis) set(ctx context.Context, sessionID, name string, v any) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sessionID, name), buf, r.ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *Redis) get(ctx context.Context, sessionID, name string, v any) error {
	if sessionID == "" {
		return ErrNotFound
	}

	buf, err := r.client.Get(ctx, r.key(sessionID, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("client.Get: %w", err)
	}

	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("json.Unmarshal[%s]: %w", name, err)
	}

	return nil
}

func (r *Redis) key(sessionID, name string) string {
	return r.prefix + sessionID + ":" + name
}
