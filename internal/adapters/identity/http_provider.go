package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
)

// HTTPProvider calls the hosted backend's account API. The backend owns
// credential storage, sends its own verification email, and provisions the
// bare profile row; this adapter only creates the account and relays the
// backend's rejection messages.
type HTTPProvider struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// NewHTTPProvider configures the hosted adapter.
func NewHTTPProvider(baseURL, serviceKey string, timeout time.Duration) (*HTTPProvider, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("identity: base url is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL:    trimmed,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type createAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createAccountResponse struct {
	AccountID string `json:"account_id"`
}

type providerError struct {
	Message string `json:"message"`
}

// CreateAccount submits the credentials to the backend. Any rejection comes
// back as a registration error carrying the backend's message so the caller
// can show it verbatim.
func (p *HTTPProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(createAccountRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("encode account request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/accounts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build account request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.serviceKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: identity provider is unreachable, please try again", domain.ErrRegistration)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: identity provider response could not be read", domain.ErrRegistration)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: %s", domain.ErrRegistration, rejectionMessage(resp.StatusCode, raw))
	}

	var out createAccountResponse
	if err := json.Unmarshal(raw, &out); err != nil || strings.TrimSpace(out.AccountID) == "" {
		return "", fmt.Errorf("%w: identity provider returned no account id", domain.ErrRegistration)
	}
	return out.AccountID, nil
}

func rejectionMessage(status int, raw []byte) string {
	var pe providerError
	if err := json.Unmarshal(raw, &pe); err == nil && strings.TrimSpace(pe.Message) != "" {
		return pe.Message
	}
	if status >= 500 {
		return "identity provider is temporarily unavailable, please try again"
	}
	return "account could not be created"
}
