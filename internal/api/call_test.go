package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, opts...)
}

func TestCall_EnvelopeUnwrap(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"id":"42","username":"ada"},"message":"ok"}`))
	})

	var out struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := client.Call(context.Background(), http.MethodGet, "/auth/me", nil, &out); err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if out.ID != "42" || out.Username != "ada" {
		t.Errorf("decoded = %+v, want data field contents", out)
	}
}

func TestCall_UnwrappedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"7","username":"ada"}`))
	})

	var out struct {
		ID string `json:"id"`
	}
	if err := client.Call(context.Background(), http.MethodGet, "/auth/me", nil, &out); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if out.ID != "7" {
		t.Errorf("ID = %q, want 7", out.ID)
	}
}

func TestCall_SuccessFalseEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"item already exists"}`))
	})

	err := client.Call(context.Background(), http.MethodPost, "/wardrobe/items", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Message != "item already exists" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestCall_ValidationErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[
			{"loc":["body","email"],"msg":"invalid email"},
			{"loc":["body","password"],"msg":"too short"},
			{"loc":["body","password"],"msg":"needs a digit"}
		]}`))
	})

	err := client.Call(context.Background(), http.MethodPost, "/auth/register", map[string]string{}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Status != 422 {
		t.Errorf("Status = %d, want 422", apiErr.Status)
	}
	if apiErr.Success {
		t.Error("Success = true, want false")
	}
	if got := apiErr.ValidationErrors["email"]; len(got) != 1 || got[0] != "invalid email" {
		t.Errorf("email errors = %v", got)
	}
	if got := apiErr.ValidationErrors["password"]; len(got) != 2 {
		t.Errorf("password errors = %v, want two messages", got)
	}
}

func TestCall_DetailStringError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Item not found"}`))
	})

	err := client.Call(context.Background(), http.MethodGet, "/wardrobe/items/9", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Message != "Item not found" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Status != 404 {
		t.Errorf("Status = %d", apiErr.Status)
	}
}

func TestCall_RateLimitScenario(t *testing.T) {
	// A 429 on upload-analyze surfaces the backend message and
	// status to the caller, and the notice carries the same message.
	recorder := &noticeRecorder{}
	effects := NewEffects(EffectsConfig{Notifier: recorder})

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail":{"message":"limit reached","current_usage":5,"limit":5,"tier_name":"Pro"}}`))
	}, WithEffectHandler(effects))

	err := client.Call(context.Background(), http.MethodPost, "/fashion/upload-analyze", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Message != "limit reached" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "limit reached")
	}
	if apiErr.Status != 429 {
		t.Errorf("Status = %d, want 429", apiErr.Status)
	}

	if len(recorder.notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(recorder.notices))
	}
	n := recorder.notices[0]
	if n.Title != "Rate Limit Exceeded" {
		t.Errorf("notice title = %q", n.Title)
	}
	if n.Action != "stylelens pricing" {
		t.Errorf("notice action = %q, want pricing pointer", n.Action)
	}
}

func TestCall_TransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1") // nothing listens here

	err := client.Call(context.Background(), http.MethodGet, "/auth/me", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Status != 0 {
		t.Errorf("Status = %d, want 0 for transport failure", apiErr.Status)
	}
	if apiErr.Message == "" {
		t.Error("Message is empty")
	}
}

func TestCall_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}, WithTokenSource(TokenFunc(func() string { return "abc" })))

	if err := client.Call(context.Background(), http.MethodGet, "/auth/me", nil, nil); err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q, want Bearer abc", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID not attached")
	}
}

func TestCall_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	hasAuth := true
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}, WithTokenSource(TokenFunc(func() string { return "" })))

	if err := client.Call(context.Background(), http.MethodGet, "/payment/pricing", nil, nil); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if hasAuth {
		t.Errorf("Authorization header present (%q), want absent for empty token", gotAuth)
	}
}

func TestCall_EffectsDoNotChangeResult(t *testing.T) {
	// The interceptor's side effects are fire-and-forget: even with a
	// handler wired, the caller still gets the normalized error.
	effects := NewEffects(EffectsConfig{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Not authenticated"}`))
	}, WithEffectHandler(effects))

	err := client.Call(context.Background(), http.MethodGet, "/wardrobe/items", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Status != 401 {
		t.Errorf("Status = %d, want 401", apiErr.Status)
	}
	if apiErr.Message != "Not authenticated" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestNewClient_Timeout(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want time.Duration
	}{
		{"default", nil, DefaultTimeout},
		{"configured", []Option{WithTimeout(30 * time.Second)}, 30 * time.Second},
		{"zero keeps default", []Option{WithTimeout(0)}, DefaultTimeout},
		{"negative keeps default", []Option{WithTimeout(-time.Second)}, DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient("http://localhost", tt.opts...)
			if got := client.HTTPClient.Timeout; got != tt.want {
				t.Errorf("HTTPClient.Timeout = %v, want %v", got, tt.want)
			}
		})
	}
}
