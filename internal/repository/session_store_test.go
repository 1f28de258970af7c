package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "sid", &Session{UserID: "u1", FirmID: "f1"}, time.Hour))

	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, &Session{UserID: "u1", FirmID: "f1"}, got)

	now = now.Add(2 * time.Hour)
	got, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got, "expired sessions are gone")

	require.NoError(t, s.Save(ctx, "sid2", &Session{UserID: "u2"}, time.Hour))
	require.NoError(t, s.Delete(ctx, "sid2"))
	got, err = s.Get(ctx, "sid2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisSessionStore(client)
	require.NoError(t, s.Save(ctx, "sid", &Session{UserID: "u1"}, time.Hour))

	assert.True(t, mr.Exists("session:sid"))
	assert.Equal(t, time.Hour, mr.TTL("session:sid"))

	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Empty(t, got.FirmID)

	mr.FastForward(2 * time.Hour)
	got, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Save(ctx, "sid", &Session{UserID: "u1", FirmID: "f1"}, time.Hour))
	require.NoError(t, s.Delete(ctx, "sid"))
	assert.False(t, mr.Exists("session:sid"))
}
