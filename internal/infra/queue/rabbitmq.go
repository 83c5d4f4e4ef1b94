package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadflow/internal/entity"
)

const (
	ExchangeName = "ex.leads"
	DLXName      = "ex.leads.dlx"

	CRMSyncQueue = "q.crm-sync"
	CRMSyncDLQ   = "q.crm-sync.dlq"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

// setupTopology declares the lead exchange and the CRM sync queue. Rejected
// CRM messages land in the dead letter queue for inspection.
func setupTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DLXName, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(CRMSyncDLQ, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(CRMSyncDLQ, "", DLXName, false, nil); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	args := amqp.Table{"x-dead-letter-exchange": DLXName}
	if _, err := ch.QueueDeclare(CRMSyncQueue, true, false, false, false, args); err != nil {
		return err
	}
	return ch.QueueBind(CRMSyncQueue, string(entity.EventLeadCreated), ExchangeName, false, nil)
}

func (r *RabbitMQ) Close() error {
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		return r.Conn.Close()
	}
	return nil
}

// Healthy reports whether the broker connection is still open.
func (r *RabbitMQ) Healthy() bool {
	return r != nil && r.Conn != nil && !r.Conn.IsClosed()
}
