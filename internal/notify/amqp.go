package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cash-flow/internal/budget"
	"cash-flow/internal/config"
	"cash-flow/internal/logger"

	"github.com/rabbitmq/amqp091-go"
)

// publisher is the subset of *amqp091.Channel the notifier uses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPNotifier publishes over-limit alerts to a direct exchange.
type AMQPNotifier struct {
	conn       *amqp091.Connection
	channel    publisher
	exchange   string
	routingKey string
	timeout    time.Duration
	log        *slog.Logger
	now        func() time.Time
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(cfg config.NotifyConfig, log *slog.Logger) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	n := newAMQPNotifier(ch, cfg, log)
	n.conn = conn
	return n, nil
}

func newAMQPNotifier(ch publisher, cfg config.NotifyConfig, log *slog.Logger) *AMQPNotifier {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AMQPNotifier{
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		timeout:    timeout,
		log:        logger.Component(log, logger.ComponentNotify),
		now:        time.Now,
	}
}

// Notify publishes one persistent JSON message. No retries.
func (n *AMQPNotifier) Notify(ctx context.Context, a budget.Alert) error {
	body, err := NewLimitExceededMessage(a, n.now()).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	err = n.channel.PublishWithContext(
		ctx,
		n.exchange,   // exchange
		n.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    n.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	n.log.InfoContext(ctx, "published limit alert",
		logger.FieldEmail, a.Email,
		"exchange", n.exchange,
		"routing_key", n.routingKey,
	)
	return nil
}

// Close shuts down the connection, if one was dialed.
func (n *AMQPNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}
