// Package catalog is a thin client for the external card pricing API that
// supplies pool payloads. It fetches individual cards and extracts market
// prices; search and filtering stay with the upstream service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production card API endpoint.
const DefaultBaseURL = "https://api.pokemontcg.io/v2"

// Card is the subset of the API's card document the application reads.
// Raw preserves the complete payload for storage in pool records, so fields
// this struct does not model are never lost.
type Card struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Supertype string          `json:"supertype"`
	Number    string          `json:"number"`
	Rarity    string          `json:"rarity"`
	Set       CardSet         `json:"set"`
	Images    CardImages      `json:"images"`
	TCGPlayer *TCGPlayer      `json:"tcgplayer,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// CardSet identifies the printed set a card belongs to.
type CardSet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Series      string `json:"series"`
	ReleaseDate string `json:"releaseDate"`
}

// CardImages holds the card artwork URLs.
type CardImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// TCGPlayer carries the marketplace pricing block.
type TCGPlayer struct {
	URL       string                  `json:"url"`
	UpdatedAt string                  `json:"updatedAt"`
	Prices    map[string]PriceVariant `json:"prices"`
}

// PriceVariant is the price spread for one printing variant.
type PriceVariant struct {
	Low       float64 `json:"low"`
	Mid       float64 `json:"mid"`
	High      float64 `json:"high"`
	Market    float64 `json:"market"`
	DirectLow float64 `json:"directLow"`
}

// Client talks to the card API. The API key is optional; without it the
// upstream applies stricter rate limits.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient creates a card API client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// GetCard fetches a single card by ID. The returned card keeps the complete
// API payload in Raw for opaque storage.
func (c *Client) GetCard(ctx context.Context, cardID string) (*Card, error) {
	if cardID == "" {
		return nil, fmt.Errorf("card ID cannot be empty")
	}

	endpoint := fmt.Sprintf("%s/cards/%s", c.baseURL, url.PathEscape(cardID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build card request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("card API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("card %s not found", cardID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("card API error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read card response: %w", err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode card response: %w", err)
	}

	var card Card
	if err := json.Unmarshal(envelope.Data, &card); err != nil {
		return nil, fmt.Errorf("failed to decode card: %w", err)
	}
	card.Raw = envelope.Data

	return &card, nil
}

// priceVariantOrder is the preference order for choosing a representative
// price: holofoil first, then first editions, then normal printings.
var priceVariantOrder = []string{
	"holofoil",
	"1stEditionHolofoil",
	"reverseHolofoil",
	"1stEditionNormal",
	"normal",
}

// MarketPrice extracts the card's current market price in USD, preferring
// the market price of the most collectible variant and falling back to the
// mid price. Returns 0 when the card has no pricing data.
func MarketPrice(card *Card) float64 {
	if card == nil || card.TCGPlayer == nil || card.TCGPlayer.Prices == nil {
		return 0
	}

	for _, variant := range priceVariantOrder {
		prices, ok := card.TCGPlayer.Prices[variant]
		if !ok {
			continue
		}
		if prices.Market > 0 {
			return prices.Market
		}
		return prices.Mid
	}

	return 0
}
