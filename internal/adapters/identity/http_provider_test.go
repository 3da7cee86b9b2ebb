package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
)

func TestHTTPProviderCreateAccount(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/accounts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer svc-key" {
			t.Errorf("expected service key header, got %q", got)
		}
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Email != "taylor@example.com" {
			t.Errorf("unexpected email %q", body.Email)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"account_id": "abc123"})
	}))
	defer srv.Close()

	provider, err := NewHTTPProvider(srv.URL, "svc-key", 5*time.Second)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	accountID, err := provider.CreateAccount(context.Background(), "taylor@example.com", "sturdy-pass1")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if accountID != "abc123" {
		t.Fatalf("expected abc123, got %q", accountID)
	}
}

func TestHTTPProviderSurfacesRejectionMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "email address is already registered"})
	}))
	defer srv.Close()

	provider, err := NewHTTPProvider(srv.URL, "", 5*time.Second)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	_, err = provider.CreateAccount(context.Background(), "taken@example.com", "sturdy-pass1")
	if !errors.Is(err, domain.ErrRegistration) {
		t.Fatalf("expected registration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected provider message preserved, got %q", err.Error())
	}
}

func TestHTTPProviderServerFault(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	provider, err := NewHTTPProvider(srv.URL, "", 5*time.Second)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	_, err = provider.CreateAccount(context.Background(), "taylor@example.com", "sturdy-pass1")
	if !errors.Is(err, domain.ErrRegistration) {
		t.Fatalf("expected registration error for upstream fault, got %v", err)
	}
}

func TestHTTPProviderUnreachable(t *testing.T) {
	t.Parallel()

	provider, err := NewHTTPProvider("http://127.0.0.1:1", "", time.Second)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	_, err = provider.CreateAccount(context.Background(), "taylor@example.com", "sturdy-pass1")
	if !errors.Is(err, domain.ErrRegistration) {
		t.Fatalf("expected registration error when unreachable, got %v", err)
	}
}
