package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	app "ticketing/internal/app/expiration"
	"ticketing/internal/broker"
)

func main() {
	log.Init(logrus.InfoLevel)
	watermillLogger := log.NewWatermill(logrus.NewEntry(logrus.StandardLogger()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := broker.Connect(ctx, broker.Config{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		ClientID: envOr("CLIENT_ID", "svc-expiration"),
	})
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	a, err := app.NewApp(watermillLogger, conn, ":"+envOr("PORT", "8082"))
	if err != nil {
		panic(err)
	}

	if err := a.Run(ctx); err != nil {
		panic(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
