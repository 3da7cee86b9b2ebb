package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/application"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
)

const topicAccountCreated = "account.created"

type Message struct {
	Topic   string
	Payload []byte

	raw kafka.Message
}

type Consumer interface {
	Poll(ctx context.Context, max int) ([]Message, error)
	Commit(ctx context.Context, msgs ...Message) error
}

// ConsumerWorker drains the hosted backend's event stream and provisions
// bare profile rows for accounts created there.
type ConsumerWorker struct {
	logger   *slog.Logger
	consumer Consumer
	service  *application.Service
	interval time.Duration
}

func NewConsumerWorker(logger *slog.Logger, consumer Consumer, service *application.Service, interval time.Duration) *ConsumerWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &ConsumerWorker{
		logger: logger, consumer: consumer, service: service, interval: interval,
	}
}

func (w *ConsumerWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "consumer iteration failed",
				"module", "events.consumer_worker",
				"layer", "adapter",
				"operation", "process_once",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// processOnce commits each message only after its handler succeeded, so a
// transient failure leaves the offset in place and the event is retried on
// the next tick. Malformed payloads are committed and dropped; retrying them
// can never succeed.
func (w *ConsumerWorker) processOnce(ctx context.Context) error {
	msgs, err := w.consumer.Poll(ctx, 50)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		switch msg.Topic {
		case topicAccountCreated:
			if err := w.service.HandleAccountCreated(ctx, msg.Payload); err != nil {
				if !errors.Is(err, domain.ErrInvalidInput) {
					w.logger.WarnContext(ctx, "failed to handle account.created, leaving uncommitted", "error", err)
					return nil
				}
				w.logger.WarnContext(ctx, "dropping malformed account.created payload", "error", err)
			}
		default:
			w.logger.DebugContext(ctx, "ignoring message on unexpected topic", "topic", msg.Topic)
		}
		if err := w.consumer.Commit(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
