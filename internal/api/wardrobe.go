package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// WardrobeItem is one item in the user's wardrobe. The backend owns the
// item schema; beyond the identity fields the payload is opaque.
type WardrobeItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`

	Raw json.RawMessage `json:"-"`
}

// Attr reads an attribute out of the opaque item payload by gjson path.
func (w *WardrobeItem) Attr(path string) gjson.Result {
	return gjson.GetBytes(w.Raw, path)
}

// ListWardrobe retrieves the user's wardrobe items.
func (c *Client) ListWardrobe(ctx context.Context) ([]WardrobeItem, error) {
	var raws []json.RawMessage
	if err := c.Call(ctx, http.MethodGet, "/wardrobe/items", nil, &raws); err != nil {
		return nil, err
	}

	items := make([]WardrobeItem, 0, len(raws))
	for _, raw := range raws {
		var item WardrobeItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, &APIError{Message: fmt.Sprintf("failed to decode wardrobe item: %v", err)}
		}
		item.Raw = raw
		items = append(items, item)
	}
	return items, nil
}

// AddWardrobeItem uploads an item photo with its metadata.
func (c *Client) AddWardrobeItem(ctx context.Context, imagePath string, fields map[string]any) (*WardrobeItem, error) {
	var raw json.RawMessage
	if err := c.Upload(ctx, "/wardrobe/items", imagePath, fields, &raw); err != nil {
		return nil, err
	}

	var item WardrobeItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("failed to decode wardrobe item: %v", err)}
	}
	item.Raw = raw
	return &item, nil
}

// RemoveWardrobeItem deletes an item.
func (c *Client) RemoveWardrobeItem(ctx context.Context, itemID string) error {
	return c.Call(ctx, http.MethodDelete, "/wardrobe/items/"+itemID, nil, nil)
}
