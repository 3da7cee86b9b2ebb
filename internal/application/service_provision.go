package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
)

type accountCreatedEvent struct {
	EventID string `json:"event_id"`
	Data    struct {
		AccountID string `json:"account_id"`
		Email     string `json:"email"`
	} `json:"data"`
}

// HandleAccountCreated provisions the bare profile row for an account the
// hosted identity backend created. A row that already exists means the event
// was redelivered or the local provider raced ahead; both are fine.
func (s *Service) HandleAccountCreated(ctx context.Context, payload []byte) error {
	var evt accountCreatedEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return fmt.Errorf("%w: malformed account.created payload", domain.ErrInvalidInput)
	}
	accountID := strings.TrimSpace(evt.Data.AccountID)
	if accountID == "" {
		return fmt.Errorf("%w: account.created payload missing account_id", domain.ErrInvalidInput)
	}

	_, err := s.profiles.CreateWithDefaults(ctx, ports.CreateProfileParams{
		AccountID: accountID,
		Email:     strings.ToLower(strings.TrimSpace(evt.Data.Email)),
		CreatedAt: s.nowFn().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger().InfoContext(ctx, "profile row already provisioned",
				"operation", "handle_account_created",
				"outcome", "noop",
				"account_id", accountID,
				"event_id", evt.EventID,
			)
			return nil
		}
		return fmt.Errorf("provision profile row: %w", err)
	}

	s.logger().InfoContext(ctx, "profile row provisioned",
		"operation", "handle_account_created",
		"outcome", "success",
		"account_id", accountID,
		"event_id", evt.EventID,
	)
	return nil
}
