package broker_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/broker"
)

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	conn, err := broker.Connect(context.Background(), broker.Config{
		Addr:     mr.Addr(),
		ClientID: "svc-test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client, err := conn.Client()
	require.NoError(t, err)
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConnect_UnreachableBroker(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := broker.Connect(ctx, broker.Config{
		Addr:     "localhost:1",
		ClientID: "svc-test",
	})
	assert.Error(t, err)
}

func TestConnection_ClientBeforeConnect(t *testing.T) {
	var conn *broker.Connection

	_, err := conn.Client()
	assert.ErrorIs(t, err, broker.ErrNotConnected)
}
