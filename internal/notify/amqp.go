package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPConfig configures the RabbitMQ sink.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// AMQPSink publishes events to a durable topic exchange, using the event
// topic as routing key.
type AMQPSink struct {
	cfg    AMQPConfig
	conn   *amqp.Connection
	ch     *amqp.Channel
	mu     sync.Mutex
	logger *slog.Logger
}

// DialAMQP connects and declares the exchange.
func DialAMQP(cfg AMQPConfig, logger *slog.Logger) (*AMQPSink, error) {
	if cfg.URL == "" || cfg.Exchange == "" {
		return nil, fmt.Errorf("amqp sink: url and exchange are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp sink: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp sink: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp sink: declare exchange %q: %w", cfg.Exchange, err)
	}

	logger.Info("amqp notification sink ready", "exchange", cfg.Exchange)
	return &AMQPSink{cfg: cfg, conn: conn, ch: ch, logger: logger}, nil
}

// Publish implements Sink.
func (s *AMQPSink) Publish(ctx context.Context, topic string, ev Event) error {
	body, err := ev.encode()
	if err != nil {
		return fmt.Errorf("amqp sink: encode event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil || s.conn.IsClosed() {
		return fmt.Errorf("amqp sink: connection closed")
	}
	err = s.ch.PublishWithContext(ctx, s.cfg.Exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.Timestamp,
		Type:         string(ev.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp sink: publish: %w", err)
	}
	return nil
}

// Close closes the channel and connection.
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	if s.ch != nil {
		if err := s.ch.Close(); err != nil {
			firstErr = err
		}
		s.ch = nil
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
