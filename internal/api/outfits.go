package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Outfit is a planned outfit for a day.
type Outfit struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	Occasion string   `json:"occasion"`
	ItemIDs  []string `json:"item_ids"`
	Notes    string   `json:"notes"`
}

// ListOutfits retrieves planned outfits in a date range (inclusive).
func (c *Client) ListOutfits(ctx context.Context, from, to time.Time) ([]Outfit, error) {
	path := fmt.Sprintf("/outfits?from=%s&to=%s",
		from.Format("2006-01-02"), to.Format("2006-01-02"))

	var outfits []Outfit
	if err := c.Call(ctx, http.MethodGet, path, nil, &outfits); err != nil {
		return nil, err
	}
	return outfits, nil
}

// PlanOutfit creates a planned outfit.
func (c *Client) PlanOutfit(ctx context.Context, outfit Outfit) (*Outfit, error) {
	var created Outfit
	if err := c.Call(ctx, http.MethodPost, "/outfits", outfit, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteOutfit removes a planned outfit.
func (c *Client) DeleteOutfit(ctx context.Context, outfitID string) error {
	return c.Call(ctx, http.MethodDelete, "/outfits/"+outfitID, nil, nil)
}
