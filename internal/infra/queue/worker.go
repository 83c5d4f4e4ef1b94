package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/integration/kommo"
)

// CRMClient pushes captured leads into the sales CRM.
type CRMClient interface {
	CreateLead(ctx context.Context, input kommo.CreateLeadInput) (int, error)
}

type Worker struct {
	Channel *amqp.Channel
	CRM     CRMClient
	log     *zap.Logger
}

func NewWorker(ch *amqp.Channel, crm CRMClient, log *zap.Logger) *Worker {
	return &Worker{Channel: ch, CRM: crm, log: log.Named("crm-sync")}
}

// Start consumes until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.log.Info("worker waiting", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := w.handle(ctx, d.Body); err != nil {
				w.log.Error("crm sync failed", zap.String("message_id", d.MessageId), zap.Error(err))
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *Worker) handle(ctx context.Context, body []byte) error {
	var ev entity.LeadEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if ev.Type != entity.EventLeadCreated {
		w.log.Debug("ignoring event", zap.String("type", string(ev.Type)))
		return nil
	}

	id, err := w.CRM.CreateLead(ctx, kommo.CreateLeadInput{
		LeadID:       ev.LeadID,
		CustomerName: ev.CustomerName,
		Phone:        ev.CustomerPhone,
		Email:        ev.CustomerEmail,
		City:         ev.City,
		Source:       string(ev.Source),
	})
	if err != nil {
		return err
	}

	w.log.Info("lead synced", zap.String("lead_id", ev.LeadID), zap.Int("crm_id", id))
	return nil
}
