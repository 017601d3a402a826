// Package holdings tracks the treasury's card positions: how many copies of
// each target are owned, at what cost, and toward which supply-control goal.
// Documents live in the same Redis namespace as the pool registry.
package holdings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

// Status values for a holding.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
)

// ErrHoldingNotFound indicates no holding exists for the given document ID.
var ErrHoldingNotFound = errors.New("holding not found")

// Holding is one tracked position.
type Holding struct {
	ID                   string          `json:"id"` // Document ID, assigned on Add
	CardID               string          `json:"card_id"`
	CardData             json.RawMessage `json:"card_data,omitempty"` // Opaque catalog payload
	QuantityOwned        int             `json:"quantity_owned"`
	TotalSupply          int             `json:"total_supply"` // Estimated copies in circulation
	AveragePurchasePrice float64         `json:"average_purchase_price"`
	TotalInvested        float64         `json:"total_invested"`
	TargetQuantity       int             `json:"target_quantity"` // How many copies we want to own
	Status               string          `json:"status"`
	Notes                string          `json:"notes,omitempty"`
	CreatedAtMs          int64           `json:"created_at_ms"`
	UpdatedAtMs          int64           `json:"updated_at_ms"`
}

// Validate checks the holding's field values.
func (h *Holding) Validate() error {
	if h.CardID == "" {
		return fmt.Errorf("card ID cannot be empty")
	}
	switch h.Status {
	case StatusActive, StatusCompleted, StatusPaused:
	default:
		return fmt.Errorf("unknown status: %q", h.Status)
	}
	if h.QuantityOwned < 0 || h.TotalSupply < 0 || h.TargetQuantity < 0 {
		return fmt.Errorf("quantities cannot be negative")
	}
	return nil
}

// Book provides holdings operations on top of a registry client's
// connection, sharing its namespace.
type Book struct {
	rdb       *redis.Client
	namespace string
}

// NewBook creates a holdings book bound to the registry client's namespace.
func NewBook(client *registry.Client) *Book {
	return &Book{
		rdb:       client.RedisClient(),
		namespace: client.Namespace(),
	}
}

// Add stores a new holding and returns its assigned document ID.
func (b *Book) Add(ctx context.Context, h *Holding) (string, error) {
	if h.Status == "" {
		h.Status = StatusActive
	}
	if err := h.Validate(); err != nil {
		return "", fmt.Errorf("invalid holding: %w", err)
	}

	h.ID = uuid.New().String()
	now := time.Now().UnixMilli()
	h.CreatedAtMs = now
	h.UpdatedAtMs = now

	key := registry.HoldingKey(b.namespace, h.ID)
	if err := b.rdb.HSet(ctx, key, holdingToHash(h)).Err(); err != nil {
		return "", fmt.Errorf("failed to write holding: %w", err)
	}

	return h.ID, nil
}

// Get retrieves a holding by document ID.
// Returns ErrHoldingNotFound if it does not exist.
func (b *Book) Get(ctx context.Context, holdingID string) (*Holding, error) {
	key := registry.HoldingKey(b.namespace, holdingID)

	hashData, err := b.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read holding: %w", err)
	}
	if len(hashData) == 0 {
		return nil, ErrHoldingNotFound
	}

	return hashToHolding(hashData)
}

// List retrieves all holdings, newest first.
func (b *Book) List(ctx context.Context) ([]*Holding, error) {
	prefix := registry.HoldingKeyPrefix(b.namespace)
	iter := b.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()

	var all []*Holding
	for iter.Next(ctx) {
		hashData, err := b.rdb.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read holding %s: %w", iter.Val(), err)
		}
		if len(hashData) == 0 {
			continue
		}

		h, err := hashToHolding(hashData)
		if err != nil {
			continue
		}
		all = append(all, h)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan holdings: %w", err)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAtMs != all[j].CreatedAtMs {
			return all[i].CreatedAtMs > all[j].CreatedAtMs
		}
		return all[i].ID < all[j].ID
	})

	return all, nil
}

// Update replaces an existing holding's fields, bumping the update
// timestamp. The document ID and creation time are preserved.
// Returns ErrHoldingNotFound if the holding does not exist.
func (b *Book) Update(ctx context.Context, h *Holding) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("invalid holding: %w", err)
	}

	existing, err := b.Get(ctx, h.ID)
	if err != nil {
		return err
	}

	h.CreatedAtMs = existing.CreatedAtMs
	h.UpdatedAtMs = time.Now().UnixMilli()

	key := registry.HoldingKey(b.namespace, h.ID)
	if err := b.rdb.HSet(ctx, key, holdingToHash(h)).Err(); err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	return nil
}

// Delete removes a holding. Idempotent.
func (b *Book) Delete(ctx context.Context, holdingID string) error {
	key := registry.HoldingKey(b.namespace, holdingID)
	if err := b.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

// Seed stores the given holdings only when the book is empty, so the default
// watchlist is initialized exactly once.
func (b *Book) Seed(ctx context.Context, defaults []*Holding) (int, error) {
	existing, err := b.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, h := range defaults {
		if _, err := b.Add(ctx, h); err != nil {
			return 0, fmt.Errorf("failed to seed holding for %s: %w", h.CardID, err)
		}
	}

	return len(defaults), nil
}

func holdingToHash(h *Holding) map[string]interface{} {
	return map[string]interface{}{
		"id":                     h.ID,
		"card_id":                h.CardID,
		"card_data":              string(h.CardData),
		"quantity_owned":         h.QuantityOwned,
		"total_supply":           h.TotalSupply,
		"average_purchase_price": strconv.FormatFloat(h.AveragePurchasePrice, 'f', -1, 64),
		"total_invested":         strconv.FormatFloat(h.TotalInvested, 'f', -1, 64),
		"target_quantity":        h.TargetQuantity,
		"status":                 h.Status,
		"notes":                  h.Notes,
		"created_at_ms":          h.CreatedAtMs,
		"updated_at_ms":          h.UpdatedAtMs,
	}
}

func hashToHolding(hash map[string]string) (*Holding, error) {
	quantityOwned, err := strconv.Atoi(hash["quantity_owned"])
	if err != nil {
		return nil, fmt.Errorf("invalid quantity_owned field: %w", err)
	}
	totalSupply, _ := strconv.Atoi(hash["total_supply"])
	targetQuantity, _ := strconv.Atoi(hash["target_quantity"])
	avgPrice, _ := strconv.ParseFloat(hash["average_purchase_price"], 64)
	totalInvested, _ := strconv.ParseFloat(hash["total_invested"], 64)
	createdAtMs, _ := strconv.ParseInt(hash["created_at_ms"], 10, 64)
	updatedAtMs, _ := strconv.ParseInt(hash["updated_at_ms"], 10, 64)

	var cardData json.RawMessage
	if raw := hash["card_data"]; raw != "" {
		cardData = json.RawMessage(raw)
	}

	return &Holding{
		ID:                   hash["id"],
		CardID:               hash["card_id"],
		CardData:             cardData,
		QuantityOwned:        quantityOwned,
		TotalSupply:          totalSupply,
		AveragePurchasePrice: avgPrice,
		TotalInvested:        totalInvested,
		TargetQuantity:       targetQuantity,
		Status:               hash["status"],
		Notes:                hash["notes"],
		CreatedAtMs:          createdAtMs,
		UpdatedAtMs:          updatedAtMs,
	}, nil
}
