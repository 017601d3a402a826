package pools

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

func setupClient(t *testing.T) *registry.Client {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	client, err := registry.NewClient(&redis.Options{Addr: mr.Addr()}, "test-namespace")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func TestList(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	for _, w := range []string{"Alice", "Bob", "Carol"} {
		_, err := client.Join(ctx, "mcd19-6", w, nil)
		require.NoError(t, err)
	}
	_, err := client.Join(ctx, "base1-4", "Alice", nil)
	require.NoError(t, err)

	t.Run("default table output", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, List(ctx, client, OutputFormatDefault, nil, &buf))
		assert.Contains(t, buf.String(), "mcd19-6")
		assert.Contains(t, buf.String(), "base1-4")
		assert.Contains(t, buf.String(), "2 pools found")
	})

	t.Run("filter drops below min count", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, List(ctx, client, OutputFormatDefault, &Filter{MinCount: 2}, &buf))
		assert.Contains(t, buf.String(), "mcd19-6")
		assert.NotContains(t, buf.String(), "base1-4")
	})

	t.Run("jsonl output", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, List(ctx, client, OutputFormatJSONL, nil, &buf))
		assert.Contains(t, buf.String(), `"card_id":"mcd19-6"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, List(ctx, client, OutputFormat("yaml"), nil, &buf))
	})
}

func TestGet(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	_, err := client.Join(ctx, "base1-4", "Alice", nil)
	require.NoError(t, err)

	t.Run("writes pretty JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Get(ctx, client, "base1-4", &buf))
		assert.Contains(t, buf.String(), `"card_id": "base1-4"`)
	})

	t.Run("propagates not found", func(t *testing.T) {
		var buf bytes.Buffer
		err := Get(ctx, client, "no-such-card", &buf)
		assert.True(t, registry.IsNotFound(err))
	})
}
