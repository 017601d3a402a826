package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chandlergims/pokestrat/internal/pools"
	"github.com/chandlergims/pokestrat/internal/printer"
	"github.com/chandlergims/pokestrat/pkg/registry"
)

var showCmd = &cobra.Command{
	Use:   "show CARD_ID",
	Short: "Show one pool in detail",
	Long: `Show the complete record of a single acquisition pool as
pretty-printed JSON, including every wallet that has joined.

CARD_ID may be a unique prefix of the full card ID.

Examples:
  # Full record for the Charizard pool
  pokestrat show base1-4

  # Extract the wallet list
  pokestrat show base1-4 | jq -r '.requested_by[]'`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, _, err := newRegistryClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	cardID, err := resolveCardArg(ctx, client, args[0])
	if err != nil {
		return err
	}

	if err := pools.Get(ctx, client, cardID, os.Stdout); err != nil {
		if registry.IsNotFound(err) {
			return printer.Error(
				"request not found",
				fmt.Sprintf("No pool exists for card %s.", cardID),
				[]string{"List pools:\n  pokestrat list"},
			)
		}
		return fmt.Errorf("failed to show pool: %w", err)
	}

	return nil
}
