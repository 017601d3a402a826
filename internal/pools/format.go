package pools

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

// FormatTable writes pools as a formatted table to the provided writer.
// Columns: CARD, DEMAND, READY, LAST JOIN, REQUESTED BY (truncated).
// Returns the number of pools formatted.
func FormatTable(w io.Writer, pools []*registry.PoolRecord, namespace string) int {
	if len(pools) == 0 {
		fmt.Fprintf(w, "No pools found for namespace '%s'\n", namespace)
		return 0
	}

	fmt.Fprintf(w, "Pools for namespace '%s':\n\n", namespace)

	fmt.Fprintf(w, "%-14s %-8s %-6s %-10s %s\n",
		"CARD", "DEMAND", "READY", "LAST JOIN", "REQUESTED BY")
	fmt.Fprintf(w, "%-14s %-8s %-6s %-10s %s\n",
		"--------------", "--------", "------", "----------", "----------------------------------------")

	for _, p := range pools {
		fmt.Fprintf(w, "%-14s %-8s %-6s %-10s %s\n",
			formatCardID(p.CardID),
			formatDemand(p.RequestCount),
			formatReady(p),
			formatAge(p.LastUpdatedAtMs),
			formatWallets(p.RequestedBy),
		)
	}

	countMsg := "pool"
	if len(pools) != 1 {
		countMsg = "pools"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(pools), countMsg)

	return len(pools)
}

// FormatJSONL writes pools as line-delimited JSON (JSONL) to the provided
// writer. Ideal for streaming and processing with tools like jq.
func FormatJSONL(w io.Writer, pools []*registry.PoolRecord) error {
	for _, pool := range pools {
		data, err := json.Marshal(pool)
		if err != nil {
			return fmt.Errorf("failed to marshal pool to JSON: %w", err)
		}

		if _, err := fmt.Fprintf(w, "%s\n", string(data)); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}

	return nil
}

// FormatSingleJSON writes one pool as pretty-printed JSON to the provided
// writer. Used by the show command to display complete pool details.
func FormatSingleJSON(w io.Writer, pool *registry.PoolRecord) error {
	data, err := json.MarshalIndent(pool, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pool to JSON: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	fmt.Fprintln(w)
	return nil
}

// formatCardID truncates long card IDs for compact display.
func formatCardID(id string) string {
	if len(id) > 14 {
		return id[:11] + "..."
	}
	return id
}

// formatDemand renders progress toward the readiness threshold, e.g. "37/50".
func formatDemand(count int) string {
	return fmt.Sprintf("%d/%d", count, registry.ReadyThreshold)
}

func formatReady(p *registry.PoolRecord) string {
	if p.Ready() {
		return "yes"
	}
	return "-"
}

// formatWallets shows the first few wallet addresses, shortened, with a
// remainder count.
func formatWallets(wallets []string) string {
	if len(wallets) == 0 {
		return "-"
	}

	const show = 3
	shortened := make([]string, 0, show)
	for i, addr := range wallets {
		if i == show {
			break
		}
		shortened = append(shortened, ShortenAddress(addr))
	}

	out := strings.Join(shortened, ", ")
	if rest := len(wallets) - show; rest > 0 {
		out += fmt.Sprintf(" +%d more", rest)
	}
	return out
}

// ShortenAddress abbreviates a wallet address for display, keeping the first
// and last four characters.
func ShortenAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}

// formatAge formats a Unix-ms timestamp as relative time like "2m ago".
func formatAge(timestampMs int64) string {
	if timestampMs == 0 {
		return "-"
	}

	t := time.Unix(timestampMs/1000, (timestampMs%1000)*1000000)
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
