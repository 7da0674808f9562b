//go:build integration

package wizard

import (
	"context"
	"os"
	"testing"

	eredis "github.com/ecodeclub/ecache/redis"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStore_Redis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = client.Close() }()

	store := NewCacheStore(eredis.NewCache(client))
	ctx := context.Background()
	id := uuid.NewString()

	missing, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, missing)

	appID := uuid.New()
	require.NoError(t, store.Save(ctx, &Session{
		ID:            id,
		Page1:         &PersonalInfo{FullName: "Ada", Email: "ada@example.com"},
		ApplicationID: &appID,
	}))

	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.Page1.FullName)
	assert.Equal(t, StepPage2, got.Step())

	require.NoError(t, store.Delete(ctx, id))
	gone, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
