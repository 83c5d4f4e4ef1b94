package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadflow/internal/entity"
)

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, ev entity.LeadEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		string(ev.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    ev.LeadID,
			Timestamp:    ev.OccurredAt,
			Type:         string(ev.Type),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishLeadEvent(context.Context, entity.LeadEvent) error { return nil }
