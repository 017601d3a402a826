package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRecordReady(t *testing.T) {
	t.Run("below threshold is not ready", func(t *testing.T) {
		for _, count := range []int{0, 1, 25, 49} {
			pool := &PoolRecord{RequestCount: count}
			assert.False(t, pool.Ready(), "count %d should not be ready", count)
		}
	})

	t.Run("exactly at threshold is ready", func(t *testing.T) {
		pool := &PoolRecord{RequestCount: ReadyThreshold}
		assert.True(t, pool.Ready())
	})

	t.Run("above threshold is ready", func(t *testing.T) {
		pool := &PoolRecord{RequestCount: 51}
		assert.True(t, pool.Ready())
	})
}

func TestPoolRecordHasParticipant(t *testing.T) {
	pool := &PoolRecord{
		CardID:       "base1-4",
		RequestCount: 2,
		RequestedBy:  []string{"Alice", "Bob"},
	}

	assert.True(t, pool.HasParticipant("Alice"))
	assert.True(t, pool.HasParticipant("Bob"))
	assert.False(t, pool.HasParticipant("Carol"))
	assert.False(t, pool.HasParticipant(""))
}

func TestPoolRecordValidate(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		pool := &PoolRecord{
			CardID:       "base1-4",
			RequestCount: 2,
			RequestedBy:  []string{"Alice", "Bob"},
		}
		assert.NoError(t, pool.Validate())
	})

	t.Run("rejects empty card ID", func(t *testing.T) {
		pool := &PoolRecord{RequestCount: 0, RequestedBy: []string{}}
		err := pool.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "card ID")
	})

	t.Run("rejects count that disagrees with participants", func(t *testing.T) {
		pool := &PoolRecord{
			CardID:       "base1-4",
			RequestCount: 3,
			RequestedBy:  []string{"Alice", "Bob"},
		}
		err := pool.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")
	})

	t.Run("rejects duplicate participants", func(t *testing.T) {
		pool := &PoolRecord{
			CardID:       "base1-4",
			RequestCount: 2,
			RequestedBy:  []string{"Alice", "Alice"},
		}
		err := pool.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("rejects empty wallet address", func(t *testing.T) {
		pool := &PoolRecord{
			CardID:       "base1-4",
			RequestCount: 1,
			RequestedBy:  []string{""},
		}
		assert.Error(t, pool.Validate())
	})
}
