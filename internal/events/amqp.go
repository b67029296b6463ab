// AngelaMos | 2026
// amqp.go

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sethvargo/go-retry"

	"github.com/carterperez-dev/decorbook/internal/config"
	"github.com/carterperez-dev/decorbook/internal/core"
)

type DialOptions struct {
	MaxRetries  uint64
	BaseBackoff time.Duration
}

var DefaultDialOptions = DialOptions{MaxRetries: 5, BaseBackoff: 500 * time.Millisecond}

// AMQPPublisher writes events to a durable topic exchange. One channel is
// shared, so publishes are serialized.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	metrics  *core.Metrics
	logger   *slog.Logger
}

func NewPublisher(
	ctx context.Context,
	cfg config.EventsConfig,
	metrics *core.Metrics,
	logger *slog.Logger,
) (Publisher, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}
	return DialAMQP(ctx, cfg.URL, cfg.Exchange, DefaultDialOptions, metrics, logger)
}

func DialAMQP(
	ctx context.Context,
	url, exchange string,
	opts DialOptions,
	metrics *core.Metrics,
	logger *slog.Logger,
) (*AMQPPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var conn *amqp.Connection
	backoff := retry.WithMaxRetries(opts.MaxRetries, retry.NewExponential(opts.BaseBackoff))

	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		c, dialErr := amqp.Dial(url)
		if dialErr != nil {
			logger.Warn("rabbitmq dial failed, retrying", "error", dialErr)
			return retry.RetryableError(dialErr)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close() //nolint:errcheck // cleanup on setup failure
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()   //nolint:errcheck // cleanup on setup failure
		_ = conn.Close() //nolint:errcheck // cleanup on setup failure
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, p.exchange, ev.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.At,
		MessageId:    ev.BookingID + ":" + ev.Type,
		Body:         body,
	})
	p.mu.Unlock()

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(ev.Type, outcome).Inc()
	}

	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) Ping(context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("rabbitmq connection closed")
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close() //nolint:errcheck // connection close follows
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
