package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chandlergims/pokestrat/internal/pools"
	"github.com/chandlergims/pokestrat/internal/printer"
)

var (
	listOutputFormat string
	listMinCount     int
	listReadyOnly    bool
	listSince        string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List acquisition pools",
	Long: `List all acquisition pools, sorted by demand.

Output Formats:
  default - Human-readable table with card, demand, ready state and wallets
  jsonl   - Complete pool records as line-delimited JSON

Filters:
  --min-count  Only pools with at least N requests
  --ready      Only pools at or above the acquisition threshold
  --since      Only pools updated since a time (RFC3339 or a duration like 2h)

Examples:
  # List all pools
  pokestrat list

  # Pools ready for acquisition
  pokestrat list --ready

  # Pools with recent activity, for scripting
  pokestrat list --since 30m --output=jsonl | jq -r '.card_id'`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", "default", "Output format: default or jsonl")
	listCmd.Flags().IntVar(&listMinCount, "min-count", 0, "Only show pools with at least this many requests")
	listCmd.Flags().BoolVar(&listReadyOnly, "ready", false, "Only show pools ready for acquisition")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only show pools updated since (RFC3339 or duration)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var outputFormat pools.OutputFormat
	switch listOutputFormat {
	case "default":
		outputFormat = pools.OutputFormatDefault
	case "jsonl":
		outputFormat = pools.OutputFormatJSONL
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", listOutputFormat),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	sinceMs, err := pools.ParseSince(listSince)
	if err != nil {
		return printer.Error(
			"invalid --since value",
			fmt.Sprintf("Error: %v", err),
			[]string{"Use RFC3339 (2026-09-01T12:00:00Z) or a duration (30m, 2h)"},
		)
	}

	client, _, err := newRegistryClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	filter := &pools.Filter{
		MinCount:  listMinCount,
		ReadyOnly: listReadyOnly,
		SinceMs:   sinceMs,
	}

	if err := pools.List(ctx, client, outputFormat, filter, os.Stdout); err != nil {
		return fmt.Errorf("failed to list pools: %w", err)
	}

	return nil
}
