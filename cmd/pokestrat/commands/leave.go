package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chandlergims/pokestrat/internal/printer"
	"github.com/chandlergims/pokestrat/internal/resolver"
	"github.com/chandlergims/pokestrat/pkg/registry"
)

var (
	leaveWallet string
)

var leaveCmd = &cobra.Command{
	Use:   "leave CARD_ID",
	Short: "Withdraw from a card's acquisition pool",
	Long: `Withdraw your wallet from a card's acquisition pool.

CARD_ID may be a unique prefix of the full card ID. When the last
wallet leaves, the pool record is removed entirely.

Examples:
  # Leave the Charizard pool
  pokestrat leave base1-4 --wallet 0xYourWalletAddress

  # Prefix works when unambiguous
  pokestrat leave mcd --wallet 0xYourWalletAddress`,
	Args: cobra.ExactArgs(1),
	RunE: runLeave,
}

func init() {
	leaveCmd.Flags().StringVarP(&leaveWallet, "wallet", "w", "", "Wallet address to withdraw (required)")
	leaveCmd.MarkFlagRequired("wallet")
	rootCmd.AddCommand(leaveCmd)
}

func runLeave(cmd *cobra.Command, args []string) error {
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

	if err := client.Leave(ctx, cardID, leaveWallet); err != nil {
		switch {
		case registry.IsNotFound(err):
			return printer.Error(
				"request not found",
				fmt.Sprintf("No pool exists for card %s.", cardID),
				[]string{"List pools:\n  pokestrat list"},
			)
		case registry.IsNotMember(err):
			return printer.Error(
				"not in this pool",
				fmt.Sprintf("Wallet %s has not requested card %s.", leaveWallet, cardID),
				[]string{fmt.Sprintf("Check the pool:\n  pokestrat show %s", cardID)},
			)
		case registry.IsConflict(err):
			return printer.Error(
				"pool is busy",
				"The pool was modified concurrently too many times.",
				[]string{"Retry the leave"},
			)
		default:
			return fmt.Errorf("failed to leave pool: %w", err)
		}
	}

	printer.Success("Request removed\n")
	return nil
}

// resolveCardArg turns a possibly-abbreviated card ID argument into a full
// card ID, with CLI-friendly errors.
func resolveCardArg(ctx context.Context, client *registry.Client, input string) (string, error) {
	cardID, err := resolver.ResolveCardID(ctx, client, input)
	if err != nil {
		if ambErr, ok := err.(*resolver.AmbiguousError); ok {
			return "", printer.Error(
				"ambiguous card ID",
				resolver.FormatAmbiguousError(ambErr),
				nil,
			)
		}
		if resolver.IsNotFoundError(err) {
			return "", printer.Error(
				fmt.Sprintf("no pool matching '%s'", input),
				"No pool exists for that card ID or prefix.",
				[]string{"List pools:\n  pokestrat list"},
			)
		}
		return "", err
	}
	return cardID, nil
}
