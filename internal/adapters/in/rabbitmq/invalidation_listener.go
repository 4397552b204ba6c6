package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicore/medical-automation-api/internal/config"
	"github.com/clinicore/medical-automation-api/internal/core/ports/in"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	amqp "github.com/rabbitmq/amqp091-go"
)

// InvalidationListener слушает события клиники из RabbitMQ и сбрасывает
// затронутые записи кэша. Очереди объявляются на общем exchange,
// по одной на каждый тип сущности
type InvalidationListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.CacheInvalidationUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

type (
	EventEntity string
	EventAction string
)

type EventRoutingKey struct {
	Source string
	Entity EventEntity
	Action EventAction
}

const (
	EventEntityAll         EventEntity = "_all_"
	EventEntityAppointment EventEntity = "appointment"
	EventEntityDoctor      EventEntity = "doctor"
	EventEntityPatient     EventEntity = "patient"
)

const (
	EventActionStore      EventAction = "store"
	EventActionInvalidate EventAction = "invalidate"
)

func NewInvalidationListener(useCase in.CacheInvalidationUseCase, cfg *config.Config, logger out.LoggerPort) (*InvalidationListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &InvalidationListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger.WithModule("rabbitmq_listener"),
	}, nil
}

func (l *InvalidationListener) Start(ctx context.Context) error {
	queueCfg := l.cfg.RabbitMQ.QueueConfig
	queues := []struct {
		name    string
		bindKey string
		handler eventHandler
	}{
		{queueCfg.AppointmentQueueName, queueCfg.AppointmentQueueBind, l.processAppointmentMessage},
		{queueCfg.DoctorQueueName, queueCfg.DoctorQueueBind, l.processDoctorMessage},
		{queueCfg.PatientQueueName, queueCfg.PatientQueueBind, l.processPatientMessage},
		{queueCfg.AllQueueName, queueCfg.AllQueueBind, l.processAllMessage},
	}

	for _, queue := range queues {
		if err := l.startQueue(ctx, queue.name, queue.bindKey, queue.handler); err != nil {
			return err
		}
		l.logger.Info("queue.started", out.LogFields{
			"queue": queue.name,
			"bind":  queue.bindKey,
		})
	}

	return nil
}

type eventHandler func(ctx context.Context, msg amqp.Delivery) error

// startQueue объявляет очередь, привязывает ее к exchange и запускает
// горутину-потребитель. Ошибка обработчика означает повторную доставку,
// битые сообщения обработчики подтверждают и отбрасывают сами
func (l *InvalidationListener) startQueue(ctx context.Context, queueName string, bindKey string, handler eventHandler) error {
	queue, err := l.channel.QueueDeclare(
		queueName,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	err = l.channel.QueueBind(
		queue.Name,
		bindKey,
		l.cfg.RabbitMQ.Exchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				if err := handler(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *InvalidationListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

// Пример routingKey:
// his.appointment.store
// his.appointment.invalidate
// billing.patient.invalidate
// admin._all_.invalidate
func (l *InvalidationListener) parseEventRoutingKey(msg amqp.Delivery) (EventRoutingKey, error) {
	routingKey := msg.RoutingKey
	parts := strings.Split(routingKey, ".")

	if len(parts) < 3 {
		return EventRoutingKey{}, fmt.Errorf("invalid routing key: %s", routingKey)
	}

	return EventRoutingKey{
		Source: parts[0],
		Entity: EventEntity(parts[1]),
		Action: EventAction(parts[2]),
	}, nil
}
