package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxTxAttempts bounds the optimistic-transaction retries inside Join and
// Leave before the race is surfaced as ErrConcurrentModification.
const maxTxAttempts = 3

// Client provides namespace-scoped Redis operations for the pool registry.
// All keys and channels are automatically namespaced. The client is
// thread-safe and can be used concurrently from multiple goroutines.
type Client struct {
	rdb       *redis.Client
	namespace string

	// txHook, when set, runs inside each optimistic transaction between the
	// watched read and EXEC. Tests use it to overlap conflicting writes.
	txHook func()
}

// NewClient creates a new registry client for the specified namespace.
// Returns an error if namespace is empty.
func NewClient(redisOpts *redis.Options, namespace string) (*Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}

	return &Client{
		rdb:       redis.NewClient(redisOpts),
		namespace: namespace,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Namespace returns the namespace this client operates in.
func (c *Client) Namespace() string {
	return c.namespace
}

// RedisClient exposes the underlying connection for collaborators that manage
// their own keys within the same namespace (for example the holdings book).
func (c *Client) RedisClient() *redis.Client {
	return c.rdb
}

// FindByCardID retrieves the pool for a card.
// Returns ErrPoolNotFound if no live pool exists; use IsNotFound() to check.
func (c *Client) FindByCardID(ctx context.Context, cardID string) (*PoolRecord, error) {
	key := PoolKey(c.namespace, cardID)

	hashData, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read pool from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hashData) == 0 {
		return nil, ErrPoolNotFound
	}

	pool, err := HashToPool(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize pool: %w", err)
	}

	return pool, nil
}

// CreatePool writes a new pool record. It is a low-level escape hatch for
// seeding; the normal creation path is the first Join for a card.
// Returns ErrPoolExists if a live pool already exists for the card.
func (c *Client) CreatePool(ctx context.Context, pool *PoolRecord) error {
	if err := pool.Validate(); err != nil {
		return fmt.Errorf("invalid pool: %w", err)
	}

	key := PoolKey(c.namespace, pool.CardID)

	txn := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrPoolExists
		}

		hash, err := PoolToHash(pool)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, hash)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := c.rdb.Watch(ctx, txn, key)
		if err == nil {
			c.publishEvent(ctx, &PoolEvent{
				Kind:     EventKindCreated,
				Pool:     pool,
				CardID:   pool.CardID,
				NewCount: pool.RequestCount,
			})
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrPoolExists) {
			return ErrPoolExists
		}
		return fmt.Errorf("failed to create pool: %w", err)
	}

	return ErrConcurrentModification
}

// DeletePool removes a pool record. Idempotent: deleting an absent pool is
// not an error and publishes no event.
func (c *Client) DeletePool(ctx context.Context, cardID string) error {
	key := PoolKey(c.namespace, cardID)

	removed, err := c.rdb.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete pool: %w", err)
	}

	if removed > 0 {
		c.publishEvent(ctx, &PoolEvent{
			Kind:   EventKindDeleted,
			CardID: cardID,
		})
	}

	return nil
}

// ListPools retrieves all pools in the namespace, sorted by request count
// descending (ties broken by card ID for stable output). Uses Redis SCAN to
// iterate without blocking the server. Malformed records are skipped.
func (c *Client) ListPools(ctx context.Context) ([]*PoolRecord, error) {
	prefix := PoolKeyPrefix(c.namespace)
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()

	var pools []*PoolRecord

	for iter.Next(ctx) {
		key := iter.Val()

		hashData, err := c.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read pool %s: %w", key, err)
		}
		if len(hashData) == 0 {
			// Deleted between SCAN and HGETALL
			continue
		}

		pool, err := HashToPool(hashData)
		if err != nil {
			// Skip malformed records but keep listing
			continue
		}

		pools = append(pools, pool)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan pools: %w", err)
	}

	sort.Slice(pools, func(i, j int) bool {
		if pools[i].RequestCount != pools[j].RequestCount {
			return pools[i].RequestCount > pools[j].RequestCount
		}
		return pools[i].CardID < pools[j].CardID
	})

	return pools, nil
}

// ScanCardIDs returns the card IDs of all pools whose ID starts with the
// given prefix. Used by the CLI's short-ID resolution.
func (c *Client) ScanCardIDs(ctx context.Context, cardIDPrefix string) ([]string, error) {
	keyPrefix := PoolKeyPrefix(c.namespace)
	iter := c.rdb.Scan(ctx, 0, keyPrefix+cardIDPrefix+"*", 0).Iterator()

	var ids []string
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(keyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan card IDs: %w", err)
	}

	sort.Strings(ids)
	return ids, nil
}

// Join adds a wallet to a card's pool, creating the pool on the first join.
//
// The caller is responsible for having confirmed the wallet's entitlement
// (the treasury payment) before calling Join; the registry does not check it.
//
// Returns ErrAlreadyJoined if the wallet is already a participant (no
// mutation is performed). Returns ErrConcurrentModification if the pool kept
// changing underneath the transaction; the whole call can be retried.
//
// The append-and-increment runs as a single WATCH/MULTI transaction keyed on
// the pool, so two concurrent joins for the same card both land, and two
// racing first joins cannot create two records.
func (c *Client) Join(ctx context.Context, cardID, identity string, cardData json.RawMessage) (*JoinResult, error) {
	if cardID == "" {
		return nil, fmt.Errorf("card ID cannot be empty")
	}
	if identity == "" {
		return nil, fmt.Errorf("wallet address cannot be empty")
	}

	key := PoolKey(c.namespace, cardID)

	var result *JoinResult

	txn := func(tx *redis.Tx) error {
		hashData, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}

		if c.txHook != nil {
			c.txHook()
		}

		now := time.Now().UnixMilli()

		if len(hashData) == 0 {
			// First join for this card: create the pool in the same
			// transaction so a racing first join aborts and retries.
			pool := &PoolRecord{
				CardID:          cardID,
				CardData:        cardData,
				RequestCount:    1,
				RequestedBy:     []string{identity},
				CreatedAtMs:     now,
				LastUpdatedAtMs: now,
			}

			hash, err := PoolToHash(pool)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key, hash)
				return nil
			})
			if err != nil {
				return err
			}

			result = &JoinResult{Created: true, Pool: pool}
			return nil
		}

		pool, err := HashToPool(hashData)
		if err != nil {
			return fmt.Errorf("failed to deserialize pool: %w", err)
		}

		if pool.HasParticipant(identity) {
			return ErrAlreadyJoined
		}

		pool.RequestedBy = append(pool.RequestedBy, identity)
		pool.RequestCount++
		pool.LastUpdatedAtMs = now

		hash, err := PoolToHash(pool)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, hash)
			return nil
		})
		if err != nil {
			return err
		}

		result = &JoinResult{Created: false, Pool: pool}
		return nil
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := c.rdb.Watch(ctx, txn, key)
		if err == nil {
			kind := EventKindJoined
			if result.Created {
				kind = EventKindCreated
			}
			c.publishEvent(ctx, &PoolEvent{
				Kind:     kind,
				Pool:     result.Pool,
				CardID:   cardID,
				Identity: identity,
				NewCount: result.Pool.RequestCount,
			})
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrAlreadyJoined) {
			return nil, ErrAlreadyJoined
		}
		return nil, fmt.Errorf("failed to join pool: %w", err)
	}

	return nil, ErrConcurrentModification
}

// Leave removes a wallet from a card's pool. When the last participant
// leaves, the record is deleted entirely; no zero-participant pools persist.
//
// Returns ErrPoolNotFound if the card has no pool and ErrNotMember if the
// wallet never joined it.
func (c *Client) Leave(ctx context.Context, cardID, identity string) error {
	if cardID == "" {
		return fmt.Errorf("card ID cannot be empty")
	}
	if identity == "" {
		return fmt.Errorf("wallet address cannot be empty")
	}

	key := PoolKey(c.namespace, cardID)

	var event *PoolEvent

	txn := func(tx *redis.Tx) error {
		hashData, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(hashData) == 0 {
			return ErrPoolNotFound
		}

		if c.txHook != nil {
			c.txHook()
		}

		pool, err := HashToPool(hashData)
		if err != nil {
			return fmt.Errorf("failed to deserialize pool: %w", err)
		}

		if !pool.HasParticipant(identity) {
			return ErrNotMember
		}

		remaining := make([]string, 0, len(pool.RequestedBy)-1)
		for _, addr := range pool.RequestedBy {
			if addr != identity {
				remaining = append(remaining, addr)
			}
		}

		if len(remaining) == 0 {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err != nil {
				return err
			}

			event = &PoolEvent{
				Kind:     EventKindDeleted,
				CardID:   cardID,
				Identity: identity,
			}
			return nil
		}

		pool.RequestedBy = remaining
		pool.RequestCount = len(remaining)
		pool.LastUpdatedAtMs = time.Now().UnixMilli()

		hash, err := PoolToHash(pool)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, hash)
			return nil
		})
		if err != nil {
			return err
		}

		event = &PoolEvent{
			Kind:     EventKindLeft,
			Pool:     pool,
			CardID:   cardID,
			Identity: identity,
			NewCount: pool.RequestCount,
		}
		return nil
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := c.rdb.Watch(ctx, txn, key)
		if err == nil {
			c.publishEvent(ctx, event)
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrPoolNotFound) || errors.Is(err, ErrNotMember) {
			return err
		}
		return fmt.Errorf("failed to leave pool: %w", err)
	}

	return ErrConcurrentModification
}

// RefreshCardData replaces the stored card metadata for a pool without
// touching membership. Used when the catalog payload goes stale.
// Returns ErrPoolNotFound if the card has no pool.
func (c *Client) RefreshCardData(ctx context.Context, cardID string, cardData json.RawMessage) error {
	key := PoolKey(c.namespace, cardID)

	txn := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrPoolNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				"card_data", string(cardData),
				"last_updated_at_ms", time.Now().UnixMilli(),
			)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := c.rdb.Watch(ctx, txn, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrPoolNotFound) {
			return ErrPoolNotFound
		}
		return fmt.Errorf("failed to refresh card data: %w", err)
	}

	return ErrConcurrentModification
}

// publishEvent pushes a change-feed message. Publish failures are swallowed:
// the mutation has already committed and the change feed is best-effort,
// observers converge through resync.
func (c *Client) publishEvent(ctx context.Context, event *PoolEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	c.rdb.Publish(ctx, PoolEventsChannel(c.namespace), payload)
}

// Subscription represents an active Pub/Sub subscription to pool events.
// Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan *PoolEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of pool events.
// The channel is closed when the subscription is closed or the context is cancelled.
func (s *Subscription) Events() <-chan *PoolEvent {
	return s.events
}

// Errors returns the channel of subscription errors.
// Errors include JSON unmarshaling failures and other non-fatal issues.
// The subscription continues after errors - messages are skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements io.Closer.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe subscribes to pool change events for this namespace.
// Returns a Subscription that delivers full pool events.
// Caller must call subscription.Close() when done.
// Context cancellation also stops the subscription.
//
// Events are delivered on a buffered channel (size 16) to prevent blocking.
// Redis Pub/Sub is at-most-once: a slow subscriber may miss events, which is
// why the live view re-lists the collection rather than trusting every event.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	channel := PoolEventsChannel(c.namespace)
	pubsub := c.rdb.Subscribe(ctx, channel)

	// Confirm the subscription actually started so no event between
	// Subscribe and the caller's first List can be silently dropped.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to pool events: %w", err)
	}

	eventsChan := make(chan *PoolEvent, 16)
	errorsChan := make(chan error, 16)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event PoolEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal pool event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &event:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}
