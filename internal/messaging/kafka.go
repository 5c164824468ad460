package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/internal/config"
	"github.com/temcen/prepforge/pkg/models"
)

// PlanEvent is the analytics record emitted after every generated plan.
type PlanEvent struct {
	EventID       uuid.UUID         `json:"event_id"`
	CompanyID     string            `json:"company_id"`
	RoleFamily    models.RoleFamily `json:"role_family"`
	TimelineDays  int               `json:"timeline_days"`
	TotalProblems int               `json:"total_problems"`
	FallbackStage int               `json:"fallback_stage"`
	CacheHit      bool              `json:"cache_hit"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// PlanEventBus publishes plan-generated events. Delivery is best
// effort: callers treat publish failures as log-only.
type PlanEventBus struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewPlanEventBus(cfg *config.Config, logger *logrus.Logger) *PlanEventBus {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topics.PlanEvents,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
	}

	return &PlanEventBus{
		writer: writer,
		logger: logger,
	}
}

// PublishPlanGenerated writes one event, keyed by company for
// partition locality.
func (b *PlanEventBus) PublishPlanGenerated(ctx context.Context, event *PlanEvent) error {
	if b.writer == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal plan event: %w", err)
	}

	err = b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.CompanyID),
		Value: payload,
		Time:  event.GeneratedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to publish plan event: %w", err)
	}

	b.logger.WithFields(logrus.Fields{
		"event_id":   event.EventID,
		"company_id": event.CompanyID,
	}).Debug("Plan event published")

	return nil
}

func (b *PlanEventBus) Close() error {
	if b.writer == nil {
		return nil
	}
	return b.writer.Close()
}
