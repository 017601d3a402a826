package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRegistration(t *testing.T) {
	expected := []string{"join", "leave", "list", "show", "watch", "holdings"}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "command %q not registered", name)
	}
}

func TestJoinCommandFlags(t *testing.T) {
	wallet := joinCmd.Flags().Lookup("wallet")
	require.NotNil(t, wallet)
	assert.Equal(t, "w", wallet.Shorthand)

	require.NotNil(t, joinCmd.Flags().Lookup("fetch-card"))
}

func TestListCommandFlags(t *testing.T) {
	output := listCmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "default", output.DefValue)

	require.NotNil(t, listCmd.Flags().Lookup("min-count"))
	require.NotNil(t, listCmd.Flags().Lookup("ready"))
	require.NotNil(t, listCmd.Flags().Lookup("since"))
}

func TestHoldingsSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range holdingsCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["init"])
}

func TestRootCommandSilencesUsage(t *testing.T) {
	// Errors are rendered by the printer, not cobra
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
}
