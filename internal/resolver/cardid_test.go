package resolver

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

func setupTestClient(t *testing.T) *registry.Client {
	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := registry.NewClient(&redis.Options{Addr: mr.Addr()}, "test-namespace")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func seedPool(t *testing.T, client *registry.Client, cardID string) {
	t.Helper()
	_, err := client.Join(context.Background(), cardID, "0xWallet", nil)
	require.NoError(t, err)
}

func TestResolveCardID_ExactMatch(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	// "base1-2" is also a prefix of "base1-24"; the exact match must win
	seedPool(t, client, "base1-2")
	seedPool(t, client, "base1-24")

	resolved, err := ResolveCardID(ctx, client, "base1-2")
	require.NoError(t, err)
	assert.Equal(t, "base1-2", resolved)
}

func TestResolveCardID_UniquePrefix(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	seedPool(t, client, "base1-24")
	seedPool(t, client, "mcd19-1")

	resolved, err := ResolveCardID(ctx, client, "mcd")
	require.NoError(t, err)
	assert.Equal(t, "mcd19-1", resolved)
}

func TestResolveCardID_TooShort(t *testing.T) {
	client := setupTestClient(t)

	_, err := ResolveCardID(context.Background(), client, "ba")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")
}

func TestResolveCardID_NotFound(t *testing.T) {
	client := setupTestClient(t)

	seedPool(t, client, "base1-24")

	_, err := ResolveCardID(context.Background(), client, "neo1")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestResolveCardID_Ambiguous(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	seedPool(t, client, "base1-24")
	seedPool(t, client, "base1-4")

	_, err := ResolveCardID(ctx, client, "base1")
	require.Error(t, err)
	require.True(t, IsAmbiguousError(err))

	ambErr := err.(*AmbiguousError)
	assert.Len(t, ambErr.Matches, 2)

	msg := FormatAmbiguousError(ambErr)
	assert.Contains(t, msg, "base1-24")
	assert.Contains(t, msg, "base1-4")
	assert.Contains(t, msg, "longer prefix")
}
