package redis

import (
	"context"
	"testing"
	"time"

	"session_auth/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T, prefix string, ttl time.Duration) (*RedisRepo, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err, "miniredis")
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewWithClient(client, prefix, ttl), s
}

func TestSessionRoundTrip(t *testing.T) {
	repo, s := newTestRepo(t, "", 0)
	ctx := context.Background()

	snapshot := []byte(`{"id":"u1","email":"a@x.com"}`)

	require.NoError(t, repo.SetSession(ctx, "u1", snapshot))

	got, err := repo.Session(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)

	assert.Equal(t, time.Duration(0), s.TTL("u1"), "session must not expire by default")
}

func TestSessionMissing(t *testing.T) {
	repo, _ := newTestRepo(t, "", 0)

	_, err := repo.Session(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSetSessionOverwrites(t *testing.T) {
	repo, _ := newTestRepo(t, "", 0)
	ctx := context.Background()

	require.NoError(t, repo.SetSession(ctx, "u1", []byte(`{"name":"old"}`)))
	require.NoError(t, repo.SetSession(ctx, "u1", []byte(`{"name":"new"}`)))

	got, err := repo.Session(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"new"}`, string(got))
}

func TestDeleteSessionIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t, "", 0)
	ctx := context.Background()

	require.NoError(t, repo.SetSession(ctx, "u1", []byte(`{}`)))
	require.NoError(t, repo.DeleteSession(ctx, "u1"))
	require.NoError(t, repo.DeleteSession(ctx, "u1"))

	_, err := repo.Session(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionPrefixAndTTL(t *testing.T) {
	repo, s := newTestRepo(t, "session:", 72*time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.SetSession(ctx, "u1", []byte(`{}`)))

	assert.True(t, s.Exists("session:u1"))
	assert.Equal(t, 72*time.Hour, s.TTL("session:u1"))

	s.FastForward(73 * time.Hour)

	_, err := repo.Session(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}
