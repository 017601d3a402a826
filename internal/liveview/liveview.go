// Package liveview turns the registry's raw change feed into application
// level callbacks: full collection snapshots per change batch and one join
// notification per newly observed participant.
//
// Redis Pub/Sub is at-most-once, so the view never trusts individual events
// for state. Every event (and a periodic resync tick) triggers a fresh list
// of the collection; join notifications are derived by diffing against the
// participants already seen, which also makes duplicate event delivery
// harmless.
package liveview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

// DefaultResyncInterval is how often the view re-lists the collection when no
// events arrive, catching changes the Pub/Sub feed dropped.
const DefaultResyncInterval = 30 * time.Second

// JoinFunc receives one callback per newly observed participant.
type JoinFunc func(cardID, identity string, newCount int)

// SnapshotFunc receives the full collection after each change batch, sorted
// by request count descending.
type SnapshotFunc func(pools []*registry.PoolRecord)

// Options configures an observer. Both callbacks are optional; a nil callback
// is simply not invoked.
type Options struct {
	OnSnapshot SnapshotFunc
	OnJoin     JoinFunc

	// ResyncInterval overrides DefaultResyncInterval when positive.
	ResyncInterval time.Duration
}

// View is an active observer. Close it to stop delivery; no callbacks run
// after Close returns.
type View struct {
	cancel func()
	done   chan struct{}
	once   sync.Once
}

// Close stops the view deterministically. It blocks until the delivery loop
// has exited, so no callback fires after Close returns. Safe to call
// multiple times. Implements io.Closer.
func (v *View) Close() error {
	v.once.Do(v.cancel)
	<-v.done
	return nil
}

// Done is closed when the delivery loop exits (by Close or context
// cancellation).
func (v *View) Done() <-chan struct{} {
	return v.done
}

// Observe subscribes to the registry change feed and starts delivering
// callbacks. The initial snapshot is delivered before Observe returns any
// events, so observers always start from complete state.
//
// Callbacks are invoked from a single goroutine and never concurrently.
func Observe(ctx context.Context, client *registry.Client, opts Options) (*View, error) {
	interval := opts.ResyncInterval
	if interval <= 0 {
		interval = DefaultResyncInterval
	}

	// Subscribe before the first list so nothing in between is lost. Events
	// that replay changes already in the snapshot are dropped by the diff.
	sub, err := client.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to pool events: %w", err)
	}

	viewCtx, cancelFunc := context.WithCancel(ctx)
	view := &View{
		cancel: cancelFunc,
		done:   make(chan struct{}),
	}

	seen := make(map[string]map[string]struct{})

	resync := func(announceJoins bool) error {
		pools, err := client.ListPools(viewCtx)
		if err != nil {
			return err
		}

		if opts.OnJoin != nil {
			for _, pool := range pools {
				known := seen[pool.CardID]
				for _, identity := range pool.RequestedBy {
					if _, ok := known[identity]; ok {
						continue
					}
					if announceJoins {
						opts.OnJoin(pool.CardID, identity, pool.RequestCount)
					}
				}
			}
		}

		// Rebuild the seen set from scratch so wallets that left and rejoin
		// later are announced again.
		next := make(map[string]map[string]struct{}, len(pools))
		for _, pool := range pools {
			members := make(map[string]struct{}, len(pool.RequestedBy))
			for _, identity := range pool.RequestedBy {
				members[identity] = struct{}{}
			}
			next[pool.CardID] = members
		}
		seen = next

		if opts.OnSnapshot != nil {
			opts.OnSnapshot(pools)
		}
		return nil
	}

	// Initial snapshot establishes the baseline; existing participants are
	// state, not news, so no join callbacks fire for them.
	if err := resync(false); err != nil {
		cancelFunc()
		sub.Close()
		close(view.done)
		return nil, fmt.Errorf("failed to load initial snapshot: %w", err)
	}

	go func() {
		defer close(view.done)
		defer sub.Close()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		subErrs := sub.Errors()

		for {
			select {
			case <-viewCtx.Done():
				return

			case _, ok := <-sub.Events():
				if !ok {
					return
				}
				// Drain any queued events so a burst coalesces into one
				// snapshot. The final state is what the list returns.
				drained := false
				for !drained {
					select {
					case _, more := <-sub.Events():
						if !more {
							drained = true
						}
					default:
						drained = true
					}
				}
				if err := resync(true); err != nil {
					if viewCtx.Err() != nil {
						return
					}
					continue
				}

			case <-ticker.C:
				if err := resync(true); err != nil && viewCtx.Err() != nil {
					return
				}

			case _, ok := <-subErrs:
				// Malformed event payload; the next resync covers it.
				if !ok {
					subErrs = nil
				}
			}
		}
	}()

	return view, nil
}
