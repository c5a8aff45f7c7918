package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Analysis is one fashion analysis result. The scoring detail the backend
// attaches varies by model version, so everything beyond the stable fields
// stays opaque and is read on demand.
type Analysis struct {
	ID        string    `json:"id"`
	Score     float64   `json:"score"`
	Feedback  string    `json:"feedback"`
	Occasion  string    `json:"occasion"`
	CreatedAt time.Time `json:"created_at"`

	Raw json.RawMessage `json:"-"`
}

// Detail reads a field out of the opaque analysis payload by gjson path,
// e.g. "style_breakdown.color_harmony".
func (a *Analysis) Detail(path string) gjson.Result {
	return gjson.GetBytes(a.Raw, path)
}

// Suggestions returns the improvement suggestions attached to the analysis.
func (a *Analysis) Suggestions() []string {
	var out []string
	for _, s := range gjson.GetBytes(a.Raw, "suggestions").Array() {
		out = append(out, s.String())
	}
	return out
}

func decodeAnalysis(raw json.RawMessage) (*Analysis, error) {
	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("failed to decode analysis: %v", err)}
	}
	a.Raw = raw
	return &a, nil
}

// AnalyzeImage uploads an image file for analysis.
func (c *Client) AnalyzeImage(ctx context.Context, filePath, occasion string) (*Analysis, error) {
	extra := map[string]any{}
	if occasion != "" {
		extra["occasion"] = occasion
	}

	var raw json.RawMessage
	if err := c.Upload(ctx, "/fashion/upload-analyze", filePath, extra, &raw); err != nil {
		return nil, err
	}
	return decodeAnalysis(raw)
}

// AnalyzeFrame submits one captured camera frame for analysis. Used by the
// live loop; frames are sent from memory, never written to disk.
func (c *Client) AnalyzeFrame(ctx context.Context, frame []byte) (*Analysis, error) {
	var raw json.RawMessage
	if err := c.UploadReader(ctx, "/fashion/analyze-frame", "frame.jpg", bytes.NewReader(frame), nil, &raw); err != nil {
		return nil, err
	}
	return decodeAnalysis(raw)
}

// AnalysisHistory lists the user's past analyses, newest first.
func (c *Client) AnalysisHistory(ctx context.Context, limit int) ([]Analysis, error) {
	var items []json.RawMessage
	path := fmt.Sprintf("/fashion/history?limit=%d", limit)
	if err := c.Call(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}

	analyses := make([]Analysis, 0, len(items))
	for _, raw := range items {
		a, err := decodeAnalysis(raw)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *a)
	}
	return analyses, nil
}
