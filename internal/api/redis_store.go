package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skili43/survey-tool/internal/services"
)

const (
	sessionKeyPrefix = "survey:session:"
	maxTxRetries     = 100
)

var errSessionExists = errors.New("session already exists")

// redisStore keeps each session as one JSON blob whose TTL is refreshed on write.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a SessionStore backed by client.
func NewRedisStore(client *redis.Client, ttl time.Duration) services.SessionStore {
	return &redisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *redisStore) Create(ctx context.Context, sess *services.Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session id required")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, sessionKey(sess.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return errSessionExists
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*services.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return decodeSession(data)
}

// Update reads, mutates and writes the session inside a WATCH transaction and
// retries when another writer got there first.
func (s *redisStore) Update(ctx context.Context, id string, fn func(*services.Session) error) (*services.Session, error) {
	key := sessionKey(id)
	var out *services.Session
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return services.NewNotFoundError("session not found")
		}
		if err != nil {
			return err
		}
		sess, err := decodeSession(data)
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}
		next, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		out = sess
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update session %s: too many concurrent writers", id)
}

func (s *redisStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}

func decodeSession(data []byte) (*services.Session, error) {
	var sess services.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

var _ services.SessionStore = (*redisStore)(nil)
