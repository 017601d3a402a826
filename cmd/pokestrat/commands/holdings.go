package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chandlergims/pokestrat/internal/catalog"
	"github.com/chandlergims/pokestrat/internal/config"
	"github.com/chandlergims/pokestrat/internal/holdings"
	"github.com/chandlergims/pokestrat/internal/printer"
)

var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "Inspect tracked card holdings",
	Long: `Inspect the card positions tracked alongside the acquisition pools.

Subcommands:
  list  Show all tracked holdings (default when omitted)
  init  Seed the default watchlist into an empty holdings book

Examples:
  # Show all holdings
  pokestrat holdings list

  # Seed the default watchlist
  pokestrat holdings init`,
	RunE: runHoldingsList,
}

var holdingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked holdings",
	RunE:  runHoldingsList,
}

var holdingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the default watchlist",
	Long: `Seed the holdings book with the default card watchlist. Does nothing
if the book already has entries. Card metadata is fetched from the
catalog API when an API key is configured.`,
	RunE: runHoldingsInit,
}

func init() {
	holdingsCmd.AddCommand(holdingsListCmd)
	holdingsCmd.AddCommand(holdingsInitCmd)
	rootCmd.AddCommand(holdingsCmd)
}

func runHoldingsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, _, err := newRegistryClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	book := holdings.NewBook(client)
	all, err := book.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list holdings: %w", err)
	}

	if len(all) == 0 {
		printer.Info("No holdings tracked.\n\n")
		printer.Info("Seed the default watchlist:\n  pokestrat holdings init\n")
		return nil
	}

	fmt.Printf("%-38s %-12s %-14s %-12s %s\n", "ID", "CARD", "OWNED/TARGET", "INVESTED", "STATUS")
	for _, h := range all {
		fmt.Printf("%-38s %-12s %-14s %-12s %s\n",
			h.ID,
			h.CardID,
			fmt.Sprintf("%d/%d", h.QuantityOwned, h.TargetQuantity),
			fmt.Sprintf("$%.2f", h.TotalInvested),
			h.Status,
		)
	}

	return nil
}

func runHoldingsInit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, cfg, err := newRegistryClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	book := holdings.NewBook(client)

	var cat *catalog.Client
	if cfg.Catalog != nil {
		cat = newCatalogClient(cfg.Catalog)
	}

	count, err := holdings.SeedDefaults(ctx, book, cat)
	if err != nil {
		return fmt.Errorf("failed to seed holdings: %w", err)
	}

	if count == 0 {
		printer.Info("Holdings book already seeded, nothing to do.\n")
		return nil
	}

	printer.Success("Seeded %d default holding(s)\n", count)
	return nil
}

func newCatalogClient(c *config.CatalogConfig) *catalog.Client {
	return catalog.NewClient(c.BaseURL, c.APIKey)
}
