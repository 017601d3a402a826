package pools

import (
	"fmt"
	"time"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

// Filter defines filtering options for the pool listing. All criteria are
// ANDed together; zero values mean "no filter".
type Filter struct {
	MinCount  int   // Minimum request count, 0 = no filter
	ReadyOnly bool  // Only pools at or above the readiness threshold
	SinceMs   int64 // Only pools updated at or after this Unix-ms timestamp
}

// Matches returns true if the pool passes all filter criteria.
func (f *Filter) Matches(pool *registry.PoolRecord) bool {
	if f.MinCount > 0 && pool.RequestCount < f.MinCount {
		return false
	}

	if f.ReadyOnly && !pool.Ready() {
		return false
	}

	if f.SinceMs > 0 && pool.LastUpdatedAtMs < f.SinceMs {
		return false
	}

	return true
}

// ParseSince parses a --since specification into a Unix timestamp in
// milliseconds. Supports two formats:
//   - Go duration format: "1h", "30m", "1h30m" (relative to now, in the past)
//   - RFC3339 timestamps: "2026-08-30T13:00:00Z"
func ParseSince(spec string) (int64, error) {
	if spec == "" {
		return 0, nil
	}

	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t.UnixMilli(), nil
	}

	if d, err := time.ParseDuration(spec); err == nil {
		return time.Now().Add(-d).UnixMilli(), nil
	}

	return 0, fmt.Errorf("invalid time specification: %s (use a duration like '1h30m' or RFC3339 like '2026-08-30T13:00:00Z')", spec)
}
