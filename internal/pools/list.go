// Package pools renders the pool collection for reading tools: the CLI's
// list/show commands and anything else that wants the formatted view rather
// than raw records.
package pools

import (
	"context"
	"fmt"
	"io"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

// OutputFormat specifies how to format the pool list output.
type OutputFormat string

const (
	// OutputFormatDefault uses a table format with one row per pool
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL outputs complete pool records as line-delimited JSON
	OutputFormatJSONL OutputFormat = "jsonl"
)

// List retrieves all pools, applies the filter if provided, and writes them
// to w. Pools arrive from the registry already sorted by request count
// descending.
func List(ctx context.Context, client *registry.Client, format OutputFormat, filter *Filter, w io.Writer) error {
	all, err := client.ListPools(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pools: %w", err)
	}

	pools := all
	if filter != nil {
		pools = make([]*registry.PoolRecord, 0, len(all))
		for _, pool := range all {
			if filter.Matches(pool) {
				pools = append(pools, pool)
			}
		}
	}

	switch format {
	case OutputFormatDefault:
		FormatTable(w, pools, client.Namespace())
	case OutputFormatJSONL:
		if err := FormatJSONL(w, pools); err != nil {
			return fmt.Errorf("failed to format JSONL output: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	return nil
}

// Get retrieves a single pool by card ID and writes it as pretty-printed
// JSON to w. Returns registry.ErrPoolNotFound if the card has no pool.
func Get(ctx context.Context, client *registry.Client, cardID string, w io.Writer) error {
	pool, err := client.FindByCardID(ctx, cardID)
	if err != nil {
		if registry.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to fetch pool: %w", err)
	}

	if err := FormatSingleJSON(w, pool); err != nil {
		return fmt.Errorf("failed to format pool: %w", err)
	}

	return nil
}
