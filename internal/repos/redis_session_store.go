package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"invdash/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps one key per sid holding the JSON-encoded session.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(addr string, ttl time.Duration) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Printf("[session] redis store at %s (ttl %s)", addr, ttl)

	return &RedisSessionStore{client: client, ttl: ttl}, nil
}

func sessionKey(sid string) string {
	return "session:" + sid
}

func (s *RedisSessionStore) Bind(ctx context.Context, sid string, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionKey(sid), data, s.ttl).Err()
}

func (s *RedisSessionStore) Lookup(ctx context.Context, sid string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, sessionKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	sess, err := decodeSession(val)
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", sid, err)
	}
	return sess, nil
}

func decodeSession(val string) (*domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	if sess.ID == "" || !sess.Role.Valid() {
		return nil, fmt.Errorf("unexpected user %q or role %q", sess.ID, sess.Role)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Unbind(ctx context.Context, sid string) error {
	return s.client.Del(ctx, sessionKey(sid)).Err()
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
