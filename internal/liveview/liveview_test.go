package liveview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

type joinEvent struct {
	cardID   string
	identity string
	newCount int
}

// recorder collects callbacks under a lock so tests can poll safely.
type recorder struct {
	mu        sync.Mutex
	snapshots [][]*registry.PoolRecord
	joins     []joinEvent
}

func (r *recorder) onSnapshot(pools []*registry.PoolRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, pools)
}

func (r *recorder) onJoin(cardID, identity string, newCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joins = append(r.joins, joinEvent{cardID, identity, newCount})
}

func (r *recorder) joinCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.joins)
}

func (r *recorder) lastSnapshot() []*registry.PoolRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func setupClient(t *testing.T) *registry.Client {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	client, err := registry.NewClient(&redis.Options{Addr: mr.Addr()}, "test-namespace")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal(msg)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestObserveInitialSnapshot(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	_, err := client.Join(ctx, "base1-4", "Alice", nil)
	require.NoError(t, err)
	_, err = client.Join(ctx, "base1-4", "Bob", nil)
	require.NoError(t, err)

	rec := &recorder{}
	view, err := Observe(ctx, client, Options{
		OnSnapshot: rec.onSnapshot,
		OnJoin:     rec.onJoin,
	})
	require.NoError(t, err)
	defer view.Close()

	// Initial snapshot is delivered synchronously by Observe
	snapshot := rec.lastSnapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "base1-4", snapshot[0].CardID)
	assert.Equal(t, 2, snapshot[0].RequestCount)

	// Pre-existing participants are baseline state, not join news
	assert.Zero(t, rec.joinCount())
}

func TestObserveJoinNotifications(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	rec := &recorder{}
	view, err := Observe(ctx, client, Options{
		OnSnapshot: rec.onSnapshot,
		OnJoin:     rec.onJoin,
	})
	require.NoError(t, err)
	defer view.Close()

	_, err = client.Join(ctx, "base1-4", "Alice", nil)
	require.NoError(t, err)

	waitFor(t, func() bool { return rec.joinCount() >= 1 }, "timeout waiting for join notification")

	rec.mu.Lock()
	first := rec.joins[0]
	rec.mu.Unlock()
	assert.Equal(t, "base1-4", first.cardID)
	assert.Equal(t, "Alice", first.identity)
	assert.Equal(t, 1, first.newCount)

	_, err = client.Join(ctx, "base1-4", "Bob", nil)
	require.NoError(t, err)

	waitFor(t, func() bool { return rec.joinCount() >= 2 }, "timeout waiting for second join")

	rec.mu.Lock()
	second := rec.joins[1]
	rec.mu.Unlock()
	assert.Equal(t, "Bob", second.identity)
	assert.Equal(t, 2, second.newCount)

	// Snapshots track the final state
	waitFor(t, func() bool {
		snap := rec.lastSnapshot()
		return len(snap) == 1 && snap[0].RequestCount == 2
	}, "timeout waiting for snapshot to converge")
}

func TestObserveSortsByCountDescending(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	for _, w := range []string{"Alice", "Bob"} {
		_, err := client.Join(ctx, "mcd19-6", w, nil)
		require.NoError(t, err)
	}
	_, err := client.Join(ctx, "base1-4", "Alice", nil)
	require.NoError(t, err)

	rec := &recorder{}
	view, err := Observe(ctx, client, Options{OnSnapshot: rec.onSnapshot})
	require.NoError(t, err)
	defer view.Close()

	snapshot := rec.lastSnapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "mcd19-6", snapshot[0].CardID)
	assert.Equal(t, "base1-4", snapshot[1].CardID)
}

func TestObserveResyncCatchesMissedEvents(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	rec := &recorder{}
	view, err := Observe(ctx, client, Options{
		OnSnapshot:     rec.onSnapshot,
		OnJoin:         rec.onJoin,
		ResyncInterval: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer view.Close()

	// Write through a second client whose events this view's subscription
	// may or may not see; the resync tick must converge regardless.
	second, err := registry.NewClient(&redis.Options{Addr: client.RedisClient().Options().Addr}, "test-namespace")
	require.NoError(t, err)
	defer second.Close()

	_, err = second.Join(ctx, "base1-2", "Carol", nil)
	require.NoError(t, err)

	waitFor(t, func() bool { return rec.joinCount() >= 1 }, "resync did not pick up the join")
	waitFor(t, func() bool {
		snap := rec.lastSnapshot()
		return len(snap) == 1 && snap[0].CardID == "base1-2"
	}, "resync did not converge the snapshot")
}

func TestViewClose(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	rec := &recorder{}
	view, err := Observe(ctx, client, Options{
		OnSnapshot: rec.onSnapshot,
		OnJoin:     rec.onJoin,
	})
	require.NoError(t, err)

	require.NoError(t, view.Close())

	// No callbacks after Close returns
	before := rec.joinCount()
	_, err = client.Join(ctx, "base1-4", "Alice", nil)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, rec.joinCount())

	// Safe to close twice
	require.NoError(t, view.Close())

	select {
	case <-view.Done():
	default:
		t.Fatal("done channel should be closed after Close")
	}
}
