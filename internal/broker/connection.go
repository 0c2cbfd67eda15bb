package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConnected is returned when the broker client is used before a
// successful Connect.
var ErrNotConnected = errors.New("broker connection is not established")

const connectTimeout = 10 * time.Second

type Config struct {
	Addr string
	// ClientID names this process on the broker. Replicas of a service use
	// distinct IDs.
	ClientID string
}

// Connection owns the single physical broker connection of a process.
// Reconnecting mid-process is not supported; the recovery strategy is
// restart-on-failure with redelivery picking up unacked messages.
type Connection struct {
	client *redis.Client
}

// Connect establishes and verifies the broker connection. The process must
// not serve until this succeeds.
func Connect(ctx context.Context, cfg Config) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Addr,
		ClientName: cfg.ClientID,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to broker at %s: %w", cfg.Addr, err)
	}

	return &Connection{client: client}, nil
}

func (c *Connection) Client() (*redis.Client, error) {
	if c == nil || c.client == nil {
		return nil, ErrNotConnected
	}
	return c.client, nil
}

func (c *Connection) Close() error {
	if c == nil || c.client == nil {
		return ErrNotConnected
	}
	return c.client.Close()
}
