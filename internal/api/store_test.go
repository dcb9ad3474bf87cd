package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skili43/survey-tool/internal/models"
	"github.com/Skili43/survey-tool/internal/services"
)

func newSession(id string, updated time.Time) *services.Session {
	return &services.Session{
		ID:        id,
		Survey:    models.DefaultSurvey(),
		Responses: models.ResponseSet{},
		Draft:     models.ResponseRow{},
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

// exerciseStore runs the SessionStore contract against any implementation.
func exerciseStore(t *testing.T, store services.SessionStore, id string) {
	ctx := context.Background()

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Create(ctx, newSession(id, time.Now())))
	assert.Error(t, store.Create(ctx, newSession(id, time.Now())), "duplicate create")

	updated, err := store.Update(ctx, id, func(s *services.Session) error {
		s.Survey.OrgName = "Acme"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Survey.OrgName)

	_, err = store.Update(ctx, id, func(s *services.Session) error {
		s.Survey.OrgName = "discarded"
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")

	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Survey.OrgName)

	_, err = store.Update(ctx, id+"-missing", func(*services.Session) error { return nil })
	se, ok := services.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, services.ErrorNotFound, se.Code)

	// concurrent appends must all land
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(ctx, id, func(s *services.Session) error {
				s.Responses = services.AppendResponse(s.Responses, models.ResponseRow{"q": fmt.Sprint(i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Responses, 20)

	ok, err = store.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreContract(t *testing.T) {
	exerciseStore(t, NewMemoryStore(0), "S1")
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	require.NoError(t, store.Create(ctx, newSession("S1", time.Now())))

	got, err := store.Get(ctx, "S1")
	require.NoError(t, err)
	got.Survey.Themes[0] = "changed"

	again, err := store.Get(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Engagement", again.Survey.Themes[0])
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(time.Hour)
	now := time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Create(ctx, newSession("old", now.Add(-2*time.Hour))))
	require.NoError(t, store.Create(ctx, newSession("fresh", now.Add(-time.Minute))))

	got, err := store.Get(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, got)
	_, err = store.Update(ctx, "old", func(*services.Session) error { return nil })
	assert.Error(t, err)

	assert.Equal(t, 1, store.Sweep())
	got, err = store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

// Runs only when a disposable Redis is available, e.g.
// SURVEY_TEST_REDIS_ADDR=localhost:6379 go test ./internal/api/
func TestRedisStoreContract(t *testing.T) {
	addr := os.Getenv("SURVEY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SURVEY_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	id := fmt.Sprintf("test-%d", time.Now().UnixNano())
	t.Cleanup(func() { client.Del(context.Background(), sessionKey(id)) })
	exerciseStore(t, NewRedisStore(client, time.Minute), id)

	ttl, err := client.TTL(context.Background(), sessionKey(id)).Result()
	require.NoError(t, err)
	assert.True(t, ttl < 0, "deleted key has no ttl")
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "survey:session:abc", sessionKey("abc"))
}
