package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pavel2232/ShopBot/internal/model"
)

func newRedisStore(t *testing.T, ttl time.Duration) (SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, ttl), mr
}

func TestSessionStores(t *testing.T) {
	stores := map[string]func(t *testing.T) SessionStore{
		"memory": func(*testing.T) SessionStore { return NewMemorySessionStore(0) },
		"redis": func(t *testing.T) SessionStore {
			s, _ := newRedisStore(t, 0)
			return s
		},
	}

	for name, build := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			got, err := store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Nil(t, got)

			session := &model.Session{
				UserID:         42,
				State:          model.StateConfirmingEmail,
				Window:         model.Window{Start: 5, End: 10, CurrentPage: 2, LastPage: 3},
				CartID:         11,
				TotalPrice:     250,
				CandidateEmail: "a@b.com",
			}
			require.NoError(t, store.Save(ctx, session))

			got, err = store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, session, got)

			got.State = model.StateBrowsing
			again, err := store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, model.StateConfirmingEmail, again.State, "stored copy must not alias the returned one")

			require.NoError(t, store.Delete(ctx, 42))
			got, err = store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestRedisSessionStore_TTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, model.NewSession(7)))

	assert.Equal(t, time.Hour, mr.TTL(sessionKey(7)))
	mr.FastForward(2 * time.Hour)

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionStore_TTL(t *testing.T) {
	store := NewMemorySessionStore(time.Millisecond)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, model.NewSession(7)))
	time.Sleep(5 * time.Millisecond)

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}
