// Package expiration runs the delayed-task queue that cancels unpaid orders
// once their reservation window elapses.
package expiration

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/redis/go-redis/v9"
	"ticketing/internal/entities"
)

const (
	defaultQueueKey     = "expiration:queue"
	defaultPollInterval = time.Second
)

type EventBus interface {
	Publish(ctx context.Context, event any) error
}

// Scheduler is a one-shot delayed queue backed by a broker sorted set keyed
// by fire time, so enqueued tasks survive process restarts. Firing publishes
// ExpirationComplete and only then removes the task: a crash in between
// re-fires it, and the order-side terminal no-op absorbs the duplicate.
type Scheduler struct {
	rdb          *redis.Client
	eb           EventBus
	queueKey     string
	pollInterval time.Duration
}

func NewScheduler(rdb *redis.Client, eb EventBus) *Scheduler {
	return &Scheduler{
		rdb:          rdb,
		eb:           eb,
		queueKey:     defaultQueueKey,
		pollInterval: defaultPollInterval,
	}
}

// Schedule enqueues the expiration check for an order. Scheduling the same
// order again just moves its fire time, so redelivered OrderCreated events
// converge instead of duplicating tasks.
func (s *Scheduler) Schedule(ctx context.Context, orderID string, delay time.Duration) error {
	fireAt := time.Now().Add(delay)

	err := s.rdb.ZAdd(ctx, s.queueKey, redis.Z{
		Score:  float64(fireAt.UnixMilli()),
		Member: orderID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to schedule expiration for order %s: %w", orderID, err)
	}
	return nil
}

// Run polls for due tasks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.FireDue(ctx); err != nil {
				log.FromContext(ctx).
					WithField("error", err).
					Error("Failed to fire due expirations")
			}
		}
	}
}

// FireDue publishes ExpirationComplete for every task whose fire time has
// passed.
func (s *Scheduler) FireDue(ctx context.Context) error {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)

	due, err := s.rdb.ZRangeByScore(ctx, s.queueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to read due expirations: %w", err)
	}

	for _, orderID := range due {
		err := s.eb.Publish(ctx, entities.ExpirationComplete{
			Header:  entities.NewEventHeader(),
			OrderID: orderID,
		})
		if err != nil {
			return fmt.Errorf("failed to publish expiration for order %s: %w", orderID, err)
		}

		if err := s.rdb.ZRem(ctx, s.queueKey, orderID).Err(); err != nil {
			return fmt.Errorf("failed to dequeue expiration for order %s: %w", orderID, err)
		}
	}

	return nil
}
