// Package resolver resolves card ID prefixes typed at the CLI to the full
// card IDs tracked in the registry.
package resolver

import (
	"context"
	"fmt"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

// MinPrefixLength is the minimum required length for card ID prefixes.
// Set IDs are short ("base1-4"), so a couple of characters is enough to
// be useful without matching everything.
const MinPrefixLength = 3

// ResolveCardID resolves a card ID prefix to a full card ID.
// Returns the full card ID if exactly one pool matches.
// Returns error if zero or multiple matches found.
//
// The function handles two cases:
// 1. Input matches an existing pool exactly - returned as-is
// 2. Input is a prefix - scans for matches and returns the unique result
func ResolveCardID(ctx context.Context, client *registry.Client, input string) (string, error) {
	// An exact match wins even when the ID is also a prefix of others
	// ("base1-2" vs "base1-24")
	if _, err := client.FindByCardID(ctx, input); err == nil {
		return input, nil
	} else if !registry.IsNotFound(err) {
		return "", fmt.Errorf("failed to look up pool: %w", err)
	}

	if len(input) < MinPrefixLength {
		return "", fmt.Errorf("card ID prefix must be at least %d characters (got %d)", MinPrefixLength, len(input))
	}

	matches, err := client.ScanCardIDs(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to search for pool: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Prefix: input}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Prefix: input, Matches: matches}
	}
}

// NotFoundError indicates no pools matched the prefix.
type NotFoundError struct {
	Prefix string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no pools found matching '%s'", e.Prefix)
}

// AmbiguousError indicates multiple pools matched the prefix.
type AmbiguousError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous card ID '%s' matches %d pools", e.Prefix, len(e.Matches))
}

// FormatAmbiguousError creates a user-friendly error message for ambiguous
// prefixes. Lists all matching card IDs (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	msg := fmt.Sprintf("Error: ambiguous card ID '%s' matches %d pools:\n", err.Prefix, len(err.Matches))

	displayCount := len(err.Matches)
	if displayCount > 10 {
		displayCount = 10
	}

	for i := 0; i < displayCount; i++ {
		msg += fmt.Sprintf("  %s\n", err.Matches[i])
	}

	if len(err.Matches) > 10 {
		msg += fmt.Sprintf("  ...and %d more\n", len(err.Matches)-10)
	}

	msg += "\nUse a longer prefix to uniquely identify the pool."
	return msg
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}
