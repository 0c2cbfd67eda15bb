package expiration_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/entities"
	"ticketing/internal/expiration"
)

type capturingBus struct {
	published []any
}

func (b *capturingBus) Publish(_ context.Context, event any) error {
	b.published = append(b.published, event)
	return nil
}

func newScheduler(t *testing.T) (*expiration.Scheduler, *capturingBus, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	bus := &capturingBus{}
	return expiration.NewScheduler(rdb, bus), bus, mr
}

func TestScheduler_FireDue(t *testing.T) {
	scheduler, bus, _ := newScheduler(t)
	ctx := context.Background()

	require.NoError(t, scheduler.Schedule(ctx, "o-due", -time.Second))
	require.NoError(t, scheduler.Schedule(ctx, "o-later", time.Hour))

	require.NoError(t, scheduler.FireDue(ctx))

	require.Len(t, bus.published, 1)
	fired, ok := bus.published[0].(entities.ExpirationComplete)
	require.True(t, ok)
	assert.Equal(t, "o-due", fired.OrderID)
	assert.NotEmpty(t, fired.Header.Id)

	// the due task is gone, the future one stays queued
	require.NoError(t, scheduler.FireDue(ctx))
	assert.Len(t, bus.published, 1)
}

func TestScheduler_Schedule_ReschedulesSameOrder(t *testing.T) {
	scheduler, bus, _ := newScheduler(t)
	ctx := context.Background()

	require.NoError(t, scheduler.Schedule(ctx, "o1", time.Hour))
	require.NoError(t, scheduler.Schedule(ctx, "o1", -time.Second))

	require.NoError(t, scheduler.FireDue(ctx))

	// one task, fired once, at the most recent deadline
	require.Len(t, bus.published, 1)
	assert.Equal(t, "o1", bus.published[0].(entities.ExpirationComplete).OrderID)
}

func TestScheduler_QueueSurvivesRestart(t *testing.T) {
	mr := miniredis.RunT(t)

	first := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	scheduler := expiration.NewScheduler(first, &capturingBus{})
	require.NoError(t, scheduler.Schedule(context.Background(), "o1", -time.Second))
	require.NoError(t, first.Close())

	// a fresh process sees the queued task
	second := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = second.Close() })

	bus := &capturingBus{}
	restarted := expiration.NewScheduler(second, bus)
	require.NoError(t, restarted.FireDue(context.Background()))

	require.Len(t, bus.published, 1)
	assert.Equal(t, "o1", bus.published[0].(entities.ExpirationComplete).OrderID)
}

func TestScheduler_Run_StopsOnContextCancel(t *testing.T) {
	scheduler, _, _ := newScheduler(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
