package registry

import (
	"encoding/json"
	"fmt"
)

// ReadyThreshold is the participant count at which a pool is treated as
// validated for acquisition. Exactly ReadyThreshold participants counts as
// ready.
const ReadyThreshold = 50

// PoolRecord represents one card's acquisition pool. The registry owns all
// records; callers request mutations by card ID and wallet address rather
// than editing fields directly.
type PoolRecord struct {
	CardID          string          `json:"card_id"`            // Stable card identifier, unique per pool
	CardData        json.RawMessage `json:"card_data"`          // Opaque card metadata, stored verbatim and never inspected
	RequestCount    int             `json:"request_count"`      // Cached count, always equal to len(RequestedBy)
	RequestedBy     []string        `json:"requested_by"`       // Wallet addresses in join order, no duplicates
	CreatedAtMs     int64           `json:"created_at_ms"`      // Unix timestamp in milliseconds when the pool was created
	LastUpdatedAtMs int64           `json:"last_updated_at_ms"` // Unix timestamp in milliseconds of the last mutation
}

// Ready reports whether the pool has gathered enough demand for acquisition.
// This is a live computed property, not a latched state: a pool that drops
// below the threshold is no longer ready.
func (p *PoolRecord) Ready() bool {
	return p.RequestCount >= ReadyThreshold
}

// HasParticipant reports whether the wallet address has already joined.
func (p *PoolRecord) HasParticipant(identity string) bool {
	for _, addr := range p.RequestedBy {
		if addr == identity {
			return true
		}
	}
	return false
}

// Validate checks the PoolRecord invariants. Returns an error if the cached
// count disagrees with the participant list or the list contains duplicates.
func (p *PoolRecord) Validate() error {
	if p.CardID == "" {
		return fmt.Errorf("card ID cannot be empty")
	}

	if p.RequestCount != len(p.RequestedBy) {
		return fmt.Errorf("request count %d does not match %d participants", p.RequestCount, len(p.RequestedBy))
	}

	seen := make(map[string]struct{}, len(p.RequestedBy))
	for i, addr := range p.RequestedBy {
		if addr == "" {
			return fmt.Errorf("empty wallet address at index %d", i)
		}
		if _, dup := seen[addr]; dup {
			return fmt.Errorf("duplicate wallet address: %s", addr)
		}
		seen[addr] = struct{}{}
	}

	return nil
}

// EventKind identifies what changed in a pool.
type EventKind string

const (
	// EventKindCreated is published on the first join for a card
	EventKindCreated EventKind = "created"

	// EventKindJoined is published when a wallet joins an existing pool
	EventKindJoined EventKind = "joined"

	// EventKindLeft is published when a wallet leaves a pool that still has members
	EventKindLeft EventKind = "left"

	// EventKindDeleted is published when the last wallet leaves and the record is removed
	EventKindDeleted EventKind = "deleted"
)

// PoolEvent is the change-feed message published after every successful
// mutation. Delivery to subscribers is best-effort; consumers must tolerate
// duplicates and missed intermediate states.
type PoolEvent struct {
	Kind     EventKind   `json:"kind"`
	Pool     *PoolRecord `json:"pool,omitempty"`     // Snapshot after the mutation; nil for deleted
	CardID   string      `json:"card_id"`            // Always set, including for deleted
	Identity string      `json:"identity,omitempty"` // Wallet that joined or left
	NewCount int         `json:"new_count"`          // Request count after the mutation
}

// JoinResult describes a successful Join call.
type JoinResult struct {
	Created bool        // True when this join created the pool
	Pool    *PoolRecord // Snapshot after the join
}
