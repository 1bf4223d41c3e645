package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kbukum/flowstack/config"
	apperrors "github.com/kbukum/flowstack/errors"
	"github.com/kbukum/flowstack/logger"
	"github.com/kbukum/flowstack/observability"
)

// ChatMessage is a single turn in a chat session.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is a conversation held in Redis for its TTL.
type ChatSession struct {
	ID         string        `json:"id"`
	WorkflowID *int64        `json:"workflow_id,omitempty"`
	Messages   []ChatMessage `json:"messages"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// SessionStore keeps chat sessions in Redis with a sliding TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewSessionStore connects to Redis and verifies connectivity.
func NewSessionStore(ctx context.Context, cfg config.RedisConfig) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.ExternalServiceError("redis", err)
	}
	return &SessionStore{
		client: client,
		ttl:    cfg.SessionTTL,
		log:    logger.WithComponent("sessions"),
	}, nil
}

func sessionKey(id string) string { return "chat:session:" + id }

// SaveSession writes a session and resets its TTL.
func (s *SessionStore) SaveSession(ctx context.Context, session *ChatSession) error {
	session.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return apperrors.ExternalServiceError("redis", err)
	}
	return nil
}

// GetSession loads a session by id. Expired or unknown ids return NotFound.
func (s *SessionStore) GetSession(ctx context.Context, id string) (*ChatSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, apperrors.NotFound("session", id)
	}
	if err != nil {
		return nil, apperrors.ExternalServiceError("redis", err)
	}
	var session ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.Internal(err)
	}
	return &session, nil
}

// DeleteSession removes a session immediately.
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return apperrors.ExternalServiceError("redis", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *SessionStore) Close() error { return s.client.Close() }

// CheckHealth implements observability.HealthChecker.
func (s *SessionStore) CheckHealth(ctx context.Context) observability.Health {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return observability.Health{
			Name:    "redis",
			Status:  observability.HealthStatusDown,
			Message: err.Error(),
		}
	}
	return observability.Health{Name: "redis", Status: observability.HealthStatusUp}
}
