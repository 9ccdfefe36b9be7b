package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/avast/retry-go/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/tentaclefi/tentacle-locker/internal/config"
	"github.com/tentaclefi/tentacle-locker/internal/observability/tracing"
	"github.com/tentaclefi/tentacle-locker/internal/types"
	"github.com/tentaclefi/tentacle-locker/pkg"
)

// HookEventProcessor handles one authority hook event to completion.
type HookEventProcessor interface {
	ProcessHookEvent(ctx context.Context, event types.HookEvent) *types.Error
}

// QueueManager consumes staking-authority hook events (registration,
// redemption) from the hook queue and dispatches them to the processor.
type QueueManager struct {
	cfg     *config.QueueConfig
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  atomic.Bool
}

func NewQueueManager(cfg *config.QueueConfig) (*QueueManager, error) {
	qm := &QueueManager{cfg: cfg}
	if err := qm.connect(); err != nil {
		return nil, err
	}
	return qm, nil
}

func (qm *QueueManager) connect() error {
	conn, err := amqp.Dial(qm.cfg.Url)
	if err != nil {
		return fmt.Errorf("failed to connect to queue: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open queue channel: %w", err)
	}

	if err := channel.Qos(qm.cfg.PrefetchCount, 0, false); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set queue prefetch: %w", err)
	}

	// Durable queue: hook events must survive broker restarts, a missed
	// redemption would leave a position locked forever.
	if _, err := channel.QueueDeclare(
		qm.cfg.HookQueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare hook queue: %w", err)
	}

	qm.conn = conn
	qm.channel = channel
	return nil
}

// Start consumes hook events until Shutdown or context cancellation. When
// the broker drops the connection, it redials up to ReconnectAttempts times
// and resumes consuming.
func (qm *QueueManager) Start(ctx context.Context, processor HookEventProcessor) error {
	for {
		err := qm.consume(ctx, processor)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if qm.closed.Load() {
			return nil
		}
		log.Ctx(ctx).Warn().Err(err).Msg("hook queue connection lost, reconnecting")

		if err := qm.reconnect(ctx); err != nil {
			return fmt.Errorf("failed to reconnect to queue: %w", err)
		}
	}
}

func (qm *QueueManager) reconnect(ctx context.Context) error {
	return retry.Do(
		qm.connect,
		retry.Context(ctx),
		retry.Attempts(qm.cfg.ReconnectAttempts),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Warn().Err(err).
				Uint("attempt", n+1).
				Msg("failed to reconnect to queue")
		}),
	)
}

// consume drains deliveries until the channel closes.
func (qm *QueueManager) consume(ctx context.Context, processor HookEventProcessor) error {
	// the broker requires consumer tags to be unique per channel, so a
	// random suffix keeps restarted instances from colliding
	consumerTag := qm.cfg.ConsumerTag + "-" + pkg.RandString(8)

	deliveries, err := qm.channel.ConsumeWithContext(
		ctx,
		qm.cfg.HookQueueName,
		consumerTag,
		false, // autoAck: hook events are acked only on a terminal outcome
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming hook queue: %w", err)
	}

	log.Info().Str("queue", qm.cfg.HookQueueName).Msg("Consuming hook events")

	for delivery := range deliveries {
		qm.handleDelivery(ctx, processor, delivery)
	}

	return ctx.Err()
}

func (qm *QueueManager) handleDelivery(
	ctx context.Context, processor HookEventProcessor, delivery amqp.Delivery,
) {
	ctx = tracing.InjectTraceID(ctx)

	var event types.HookEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to decode hook event, dropping")
		qm.nack(ctx, delivery, false)
		return
	}

	procErr := processor.ProcessHookEvent(ctx, event)
	if procErr == nil {
		qm.ack(ctx, delivery)
		return
	}

	if procErr.StatusCode >= http.StatusInternalServerError {
		// Transient failure: let the broker redeliver. Both hooks tolerate
		// redelivery.
		qm.nack(ctx, delivery, qm.cfg.RequeueOnFailure)
		return
	}

	// Terminal rejection (bad payload, unauthorized publisher). Redelivery
	// cannot fix it.
	log.Ctx(ctx).Error().Err(procErr).
		Str("eventType", event.EventType.String()).
		Msg("hook event rejected")
	qm.ack(ctx, delivery)
}

func (qm *QueueManager) ack(ctx context.Context, delivery amqp.Delivery) {
	if err := delivery.Ack(false); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to ack hook event")
	}
}

func (qm *QueueManager) nack(ctx context.Context, delivery amqp.Delivery, requeue bool) {
	if err := delivery.Nack(false, requeue); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to nack hook event")
	}
}

// Shutdown gracefully stops the interaction with the queue, ensuring all
// resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")
	qm.closed.Store(true)
	if err := qm.channel.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close queue channel")
	}
	if err := qm.conn.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close queue connection")
	}
}
