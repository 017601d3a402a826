package printer

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStderr runs fn with os.Stderr redirected to a pipe and returns what
// was written.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		err := Error("Pool not found", "No pool exists for that card", []string{})
		require.Error(t, err)
		require.Equal(t, "Pool not found", err.Error())
	})

	t.Run("single suggestion prints without a list", func(t *testing.T) {
		var err error
		out := captureStderr(t, func() {
			err = Error("Redis unreachable", "Could not connect to the registry", []string{"Check redis.url in pokestrat.yml"})
		})
		require.Error(t, err)
		require.Equal(t, "Redis unreachable", err.Error())
		assert.Contains(t, out, "Could not connect to the registry")
		assert.Contains(t, out, "Check redis.url in pokestrat.yml")
		assert.NotContains(t, out, "Either:")
	})

	t.Run("multiple suggestions print as a numbered list", func(t *testing.T) {
		var err error
		out := captureStderr(t, func() {
			err = Error("Ambiguous card ID", "Multiple pools match that prefix", []string{
				"Use a longer prefix",
				"Run 'pokestrat list' to see the full IDs",
			})
		})
		require.Error(t, err)
		require.Equal(t, "Ambiguous card ID", err.Error())
		assert.Contains(t, out, "Either:")
		assert.Contains(t, out, "1. Use a longer prefix")
		assert.Contains(t, out, "2. Run 'pokestrat list' to see the full IDs")
	})

	t.Run("nil suggestions print nothing extra", func(t *testing.T) {
		out := captureStderr(t, func() {
			Error("Request not found", "No pool exists for card base1-4.", nil)
		})
		assert.Contains(t, out, "No pool exists for card base1-4.")
		assert.NotContains(t, out, "Either:")
	})
}

// Note: The Error function prints formatted output to stderr with colors. The
// error object returned only contains the title for Cobra's error handling.
// This is intentional to avoid duplicate output while providing rich formatted errors.
