package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tnvu/storefront/internal/storage/mq"
)

// Service consumes the sale events other parts of the shop publish through
// the outbox relay.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger,
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(
		TopicSaleCommitted,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev SaleCommittedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal sale committed event: %w", err)
			}

			if err := s.handleSaleCommittedEvent(ctx, ev); err != nil {
				return fmt.Errorf("handle sale committed event: %w", err)
			}

			return nil
		},
	); err != nil {
		return nil, fmt.Errorf("register sale committed event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return func() {
		mqCleanup()
	}, nil
}
