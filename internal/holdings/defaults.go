package holdings

import (
	"context"

	"github.com/chandlergims/pokestrat/internal/catalog"
)

// defaultTargets is the initial watchlist: vintage supply-control targets
// with their estimated circulation and goal quantities.
var defaultTargets = []*Holding{
	{
		CardID:         "base1-24",
		TotalSupply:    10000,
		TargetQuantity: 5000,
		Status:         StatusActive,
		Notes:          "Low-population fossil target, aiming for half the supply",
	},
	{
		CardID:         "base1-4",
		TotalSupply:    50000,
		TargetQuantity: 20000,
		Status:         StatusActive,
		Notes:          "High-value target with strong market demand",
	},
	{
		CardID:         "base1-2",
		TotalSupply:    30000,
		TargetQuantity: 12000,
		Status:         StatusActive,
		Notes:          "Starter Pokemon, high collector value and nostalgia factor",
	},
	{
		CardID:         "mcd19-1",
		TotalSupply:    15000,
		TargetQuantity: 7500,
		Status:         StatusActive,
		Notes:          "Limited promo print, low population and high demand",
	},
	{
		CardID:         "mcd19-6",
		TotalSupply:    8000,
		TargetQuantity: 4000,
		Status:         StatusActive,
		Notes:          "Popular promo with strong nostalgia appeal",
	},
}

// SeedDefaults initializes the default watchlist, fetching each card's
// catalog payload when a catalog client is provided. Holdings are only
// written when the book is empty; returns how many were created.
//
// Catalog failures for individual cards are not fatal - the holding is
// seeded without payload and can be refreshed later.
func SeedDefaults(ctx context.Context, book *Book, cat *catalog.Client) (int, error) {
	defaults := make([]*Holding, len(defaultTargets))
	for i, tmpl := range defaultTargets {
		h := *tmpl
		if cat != nil {
			if card, err := cat.GetCard(ctx, h.CardID); err == nil {
				h.CardData = card.Raw
			}
		}
		defaults[i] = &h
	}

	return book.Seed(ctx, defaults)
}
