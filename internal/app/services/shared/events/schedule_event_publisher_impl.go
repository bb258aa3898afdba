package events

import (
	"context"
	"sync"
	"telemed-schedule-service/internal/app/contracts"
	"telemed-schedule-service/internal/pkg/constvars"
	"telemed-schedule-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher pushes schedule change events onto a durable queue so slot
// generators and caches downstream can refresh without polling.
type Publisher struct {
	ch        *amqp.Channel
	log       *zap.Logger
	queueName string
	mu        sync.Mutex
}

func NewPublisher(conn *amqp.Connection, log *zap.Logger, queueName string) (contracts.ScheduleEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		ch:        ch,
		log:       log,
		queueName: queueName,
	}, nil
}

func (p *Publisher) PublishScheduleEvent(ctx context.Context, event contracts.ScheduleEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.log.Info("Publisher.PublishScheduleEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("action", event.Action),
	)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", p.queueName, false, false, msg); err != nil {
		return exceptions.ErrPublishMessage(err)
	}
	return nil
}
