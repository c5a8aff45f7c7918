package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// Upload sends a file as a multipart form to path and decodes the response
// into out. Extra fields are JSON-stringified alongside the file part, the
// way the backend's upload endpoints expect them. The request goes through
// the same response policy as Call.
func (c *Client) Upload(ctx context.Context, path, filePath string, extra map[string]any, out any) error {
	file, err := os.Open(filePath)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to open file: %v", err)}
	}
	defer file.Close()

	return c.UploadReader(ctx, path, filepath.Base(filePath), file, extra, out)
}

// UploadReader is Upload for in-memory content, used by the live loop to
// send captured frames without touching disk.
func (c *Client) UploadReader(ctx context.Context, path, filename string, content io.Reader, extra map[string]any, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to build form: %v", err)}
	}
	if _, err := io.Copy(part, content); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to read upload content: %v", err)}
	}

	for field, value := range extra {
		encoded, err := encodeField(value)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("failed to encode field %s: %v", field, err)}
		}
		if err := writer.WriteField(field, encoded); err != nil {
			return &APIError{Message: fmt.Sprintf("failed to write field %s: %v", field, err)}
		}
	}

	if err := writer.Close(); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to finalize form: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, out)
}

// encodeField stringifies a form field. Strings pass through; everything
// else is JSON so the backend can decode structured fields.
func encodeField(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
