package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chandlergims/pokestrat/internal/catalog"
	"github.com/chandlergims/pokestrat/internal/printer"
	"github.com/chandlergims/pokestrat/pkg/registry"
)

var (
	joinWallet    string
	joinFetchCard bool
)

var joinCmd = &cobra.Command{
	Use:   "join CARD_ID",
	Short: "Join a card's acquisition pool",
	Long: `Join a card's acquisition pool with your wallet address.

The first join for a card creates its pool. Joining a pool you are
already in is an error and leaves the pool unchanged.

With --fetch-card, the card's metadata is fetched from the catalog API
and stored alongside the pool so readers can render it without another
lookup.

Examples:
  # Join the pool for Charizard (Base Set)
  pokestrat join base1-4 --wallet 0xYourWalletAddress

  # Create a pool with catalog metadata attached
  pokestrat join base1-4 --wallet 0xYourWalletAddress --fetch-card`,
	Args: cobra.ExactArgs(1),
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().StringVarP(&joinWallet, "wallet", "w", "", "Wallet address to join with (required)")
	joinCmd.Flags().BoolVar(&joinFetchCard, "fetch-card", false, "Fetch card metadata from the catalog API")
	joinCmd.MarkFlagRequired("wallet")
	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cardID := args[0]

	client, cfg, err := newRegistryClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	var cardData json.RawMessage
	if joinFetchCard {
		baseURL, apiKey := "", ""
		if cfg.Catalog != nil {
			baseURL = cfg.Catalog.BaseURL
			apiKey = cfg.Catalog.APIKey
		}
		card, err := catalog.NewClient(baseURL, apiKey).GetCard(ctx, cardID)
		if err != nil {
			printer.Warning("Could not fetch card metadata: %v\n", err)
		} else {
			cardData = card.Raw
		}
	}

	result, err := client.Join(ctx, cardID, joinWallet, cardData)
	if err != nil {
		switch {
		case registry.IsAlreadyJoined(err):
			return printer.Error(
				"already in this pool",
				fmt.Sprintf("Wallet %s has already requested card %s.", joinWallet, cardID),
				[]string{fmt.Sprintf("Check the pool:\n  pokestrat show %s", cardID)},
			)
		case registry.IsConflict(err):
			return printer.Error(
				"pool is busy",
				"The pool was modified concurrently too many times.",
				[]string{"Retry the join"},
			)
		default:
			return fmt.Errorf("failed to join pool: %w", err)
		}
	}

	if result.Created {
		printer.Success("Created pool for %s\n", cardID)
	}
	printer.Success("Added to community requests! (%d/%d)\n", result.Pool.RequestCount, registry.ReadyThreshold)
	if result.Pool.Ready() {
		printer.Info("This pool is ready for acquisition.\n")
	}

	return nil
}
