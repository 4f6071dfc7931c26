package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// AchievementStatusEvent announces a derived status transition. Events are
// best effort: losing one never fails the triggering write.
type AchievementStatusEvent struct {
	AchievementID  uint      `json:"achievement_id"`
	UserID         uint      `json:"user_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher broadcasts achievement status transitions.
type EventPublisher interface {
	PublishStatusChanged(event AchievementStatusEvent)
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSEventPublisher publishes status events on the given subject. A nil
// connection yields a publisher that drops events.
func NewNATSEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	if subject == "" {
		subject = "achievement.status.changed"
	}
	return &natsEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

// PublisherFunc adapts a plain function into an EventPublisher.
type PublisherFunc func(event AchievementStatusEvent)

// PublishStatusChanged invokes the wrapped function.
func (f PublisherFunc) PublishStatusChanged(event AchievementStatusEvent) {
	f(event)
}

// CombinePublishers fans one event out to every given publisher.
func CombinePublishers(publishers ...EventPublisher) EventPublisher {
	return PublisherFunc(func(event AchievementStatusEvent) {
		for _, publisher := range publishers {
			if publisher != nil {
				publisher.PublishStatusChanged(event)
			}
		}
	})
}

func (p *natsEventPublisher) PublishStatusChanged(event AchievementStatusEvent) {
	if p.conn == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode status event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Uint("achievement_id", event.AchievementID).Msg("failed to publish status event")
	}
}
