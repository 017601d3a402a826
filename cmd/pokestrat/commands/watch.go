package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chandlergims/pokestrat/internal/liveview"
	"github.com/chandlergims/pokestrat/internal/pools"
	"github.com/chandlergims/pokestrat/internal/printer"
	"github.com/chandlergims/pokestrat/pkg/registry"
)

var (
	watchResyncInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch pool activity in real time",
	Long: `Watch the pool collection live. Prints one line per new request as
wallets join, and announces pools crossing the acquisition threshold.

The view periodically re-reads the full collection, so it converges on
the true state even if individual change notifications are missed.

Press Ctrl+C to stop.

Examples:
  # Watch all pool activity
  pokestrat watch

  # Re-sync more aggressively
  pokestrat watch --resync-interval 5s`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchResyncInterval, "resync-interval", liveview.DefaultResyncInterval, "How often to re-read the full collection")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	client, _, err := newRegistryClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	// Pools already at or above the threshold, so readiness is announced
	// only on the transition
	ready := make(map[string]bool)
	first := true

	view, err := liveview.Observe(ctx, client, liveview.Options{
		ResyncInterval: watchResyncInterval,
		OnJoin: func(cardID, identity string, newCount int) {
			printer.Printf("%s  %s joined %s (%d/%d)\n",
				time.Now().Format("15:04:05"),
				pools.ShortenAddress(identity),
				cardID,
				newCount,
				registry.ReadyThreshold,
			)
		},
		OnSnapshot: func(snapshot []*registry.PoolRecord) {
			current := make(map[string]bool, len(snapshot))
			for _, pool := range snapshot {
				current[pool.CardID] = pool.Ready()
				if pool.Ready() && !ready[pool.CardID] && !first {
					printer.Success("Pool %s is ready for acquisition (%d requests)\n", pool.CardID, pool.RequestCount)
				}
			}
			ready = current

			if first {
				first = false
				printer.Info("Watching %d pool(s). Press Ctrl+C to stop.\n", len(snapshot))
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start live view: %w", err)
	}
	defer view.Close()

	select {
	case <-ctx.Done():
	case <-view.Done():
	}

	printer.Info("\nStopped watching.\n")
	return nil
}
