package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	app "ticketing/internal/app/catalog"
	"ticketing/internal/broker"
)

func main() {
	log.Init(logrus.InfoLevel)
	watermillLogger := log.NewWatermill(logrus.NewEntry(logrus.StandardLogger()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := broker.Connect(ctx, broker.Config{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		ClientID: envOr("CLIENT_ID", "svc-catalog"),
	})
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	db, err := sqlx.Open("postgres", os.Getenv("POSTGRES_URL"))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	a, err := app.NewApp(watermillLogger, conn, db, ":"+envOr("PORT", "8081"))
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
