package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	lenserrors "github.com/stylelens/stylelens/internal/errors"
)

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Username != "ada" || req.Password != "secret" {
			t.Errorf("request = %+v", req)
		}

		w.Write([]byte(`{"access_token":"abc","token_type":"bearer","user_info":{"id":"1","username":"ada","email":"ada@example.com","tier":"spotlight"}}`))
	})

	resp, err := client.Login(context.Background(), "ada", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if resp.AccessToken != "abc" {
		t.Errorf("AccessToken = %q", resp.AccessToken)
	}
	if resp.UserInfo.Tier != "spotlight" {
		t.Errorf("Tier = %q", resp.UserInfo.Tier)
	}
}

func TestLogin_ContractViolation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing access_token", `{"user_info":{"id":"1","username":"ada"}}`},
		{"missing user id", `{"access_token":"abc","user_info":{"username":"ada"}}`},
		{"legacy token-only shape", `{"token":"abc","user":{"id":"1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Login(context.Background(), "ada", "secret")
			if err == nil {
				t.Fatal("expected contract error")
			}

			var lensErr *lenserrors.StyleLensError
			if !errors.As(err, &lensErr) || lensErr.Code != lenserrors.ErrCodeAuthContract {
				t.Errorf("error = %v, want AUTH-004 contract error", err)
			}
		})
	}
}

func TestLogin_BackendRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	})

	_, err := client.Login(context.Background(), "ada", "wrong")

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Status != 401 {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Message != "Incorrect username or password" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestRegister(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"message":"verification email sent","email":"ada@example.com"}`))
	})

	resp, err := client.Register(context.Background(), "ada", "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.Email != "ada@example.com" {
		t.Errorf("Email = %q", resp.Email)
	}
}

func TestRefreshTier(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"tier":"elite"}}`))
	})

	tier, err := client.RefreshTier(context.Background())
	if err != nil {
		t.Fatalf("RefreshTier() error = %v", err)
	}
	if tier != "elite" {
		t.Errorf("tier = %q, want elite", tier)
	}
}
