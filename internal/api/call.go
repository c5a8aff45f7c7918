package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// APIError is the one shape every failed call is normalized into: transport
// failures, HTTP error statuses, and application-level success:false
// envelopes all surface to the caller like this.
type APIError struct {
	Success          bool                `json:"success"`
	Message          string              `json:"message"`
	Status           int                 `json:"status"`
	ValidationErrors map[string][]string `json:"validation_errors,omitempty"`
	Details          json.RawMessage     `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Call performs a backend request and decodes the response into out.
//
// On success it resolves with the `data` field of the response envelope
// (or the whole body when the endpoint doesn't wrap). On any failure,
// whether a transport error, a non-2xx status, or a success:false envelope, it
// returns an *APIError. The response policy's side effects run either way
// and never alter the returned value.
func (c *Client) Call(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("failed to encode request body: %v", err)}
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, out)
}

// send runs a prepared request through the shared response policy. Call and
// Upload both end here.
func (c *Client) send(req *http.Request, out any) error {
	c.prepare(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	classification := Classify(resp.StatusCode, req.URL.String(), respBody)
	c.effects.Handle(classification)

	if classification.Kind != KindOK && classification.Kind != KindRedirect {
		return normalizeError(resp.StatusCode, respBody)
	}

	return decodeSuccess(resp.StatusCode, respBody, out)
}

// decodeSuccess unwraps the {success, data, message} envelope. A 2xx body
// carrying success:false is still a failure to the caller.
func decodeSuccess(status int, body []byte, out any) error {
	if len(body) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &APIError{Status: status, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{Status: status, Message: msg, Details: body}
	}

	if out == nil {
		return nil
	}

	payload := body
	if len(env.Data) > 0 {
		payload = env.Data
	}

	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], payload...)
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &APIError{Status: status, Message: fmt.Sprintf("failed to decode response data: %v", err)}
	}
	return nil
}

// normalizeError builds the uniform APIError from a non-2xx body.
//
// FastAPI-style validation bodies (detail:[{loc:[...], msg}, ...]) are
// folded into a field→messages map keyed by the last loc segment.
func normalizeError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: http.StatusText(status),
		Details: body,
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.IsArray():
		apiErr.ValidationErrors = map[string][]string{}
		detail.ForEach(func(_, item gjson.Result) bool {
			msg := item.Get("msg").String()
			loc := item.Get("loc").Array()

			field := "general"
			if len(loc) > 0 {
				field = loc[len(loc)-1].String()
			}
			apiErr.ValidationErrors[field] = append(apiErr.ValidationErrors[field], msg)
			return true
		})
		apiErr.Message = "Validation failed"

	case detail.IsObject():
		if msg := detail.Get("message").String(); msg != "" {
			apiErr.Message = msg
		}

	case detail.Type == gjson.String && detail.String() != "":
		apiErr.Message = detail.String()

	default:
		if msg := gjson.GetBytes(body, "message").String(); msg != "" {
			apiErr.Message = msg
		}
	}

	return apiErr
}
