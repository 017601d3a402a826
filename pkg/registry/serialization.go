package registry

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Serialization helpers for converting between PoolRecords and Redis hashes
//
// Redis stores data as string-to-string maps (hashes). The participant array
// is JSON-encoded into a single hash field, and card_data is carried as the
// raw JSON string the caller supplied - the registry never parses it.

// PoolToHash converts a PoolRecord to a Redis hash format.
func PoolToHash(p *PoolRecord) (map[string]interface{}, error) {
	requestedByJSON, err := json.Marshal(p.RequestedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal requested_by: %w", err)
	}

	hash := map[string]interface{}{
		"card_id":            p.CardID,
		"card_data":          string(p.CardData),
		"request_count":      p.RequestCount,
		"requested_by":       string(requestedByJSON),
		"created_at_ms":      p.CreatedAtMs,
		"last_updated_at_ms": p.LastUpdatedAtMs,
	}

	return hash, nil
}

// HashToPool converts a Redis hash to a PoolRecord.
func HashToPool(hash map[string]string) (*PoolRecord, error) {
	requestCount, err := strconv.Atoi(hash["request_count"])
	if err != nil {
		return nil, fmt.Errorf("invalid request_count field: %w", err)
	}

	var requestedBy []string
	if requestedByJSON := hash["requested_by"]; requestedByJSON != "" {
		if err := json.Unmarshal([]byte(requestedByJSON), &requestedBy); err != nil {
			return nil, fmt.Errorf("failed to unmarshal requested_by: %w", err)
		}
	}

	// Ensure we have an empty slice instead of nil for consistency
	if requestedBy == nil {
		requestedBy = []string{}
	}

	createdAtMs, _ := strconv.ParseInt(hash["created_at_ms"], 10, 64)
	lastUpdatedAtMs, _ := strconv.ParseInt(hash["last_updated_at_ms"], 10, 64)

	var cardData json.RawMessage
	if raw := hash["card_data"]; raw != "" {
		cardData = json.RawMessage(raw)
	}

	pool := &PoolRecord{
		CardID:          hash["card_id"],
		CardData:        cardData,
		RequestCount:    requestCount,
		RequestedBy:     requestedBy,
		CreatedAtMs:     createdAtMs,
		LastUpdatedAtMs: lastUpdatedAtMs,
	}

	return pool, nil
}
