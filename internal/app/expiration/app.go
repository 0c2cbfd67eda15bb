package app

import (
	"context"
	"os"
	"time"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ticketing/internal/broker"
	"ticketing/internal/expiration"
	"ticketing/internal/interfaces/http"
	"ticketing/internal/interfaces/message/events"
)

const ConsumerGroup = "svc-expiration"

type App struct {
	watermillLogger watermill.LoggerAdapter
	logger          zerolog.Logger
	router          *message.Router
	srv             *http.HealthServer
	scheduler       *expiration.Scheduler
}

func NewApp(
	watermillLogger watermill.LoggerAdapter,
	conn *broker.Connection,
	httpAddr string,
) (*App, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	eventBus, err := broker.NewEventBus(conn, watermillLogger)
	if err != nil {
		return nil, err
	}

	client, err := conn.Client()
	if err != nil {
		return nil, err
	}

	scheduler := expiration.NewScheduler(client, eventBus)

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	router.AddMiddleware(events.SkipMarshallingErrorsMiddleware)

	processorConfig, err := broker.NewEventProcessorConfig(conn, ConsumerGroup, watermillLogger)
	if err != nil {
		return nil, err
	}

	processor, err := cqrs.NewEventProcessorWithConfig(router, processorConfig)
	if err != nil {
		return nil, err
	}

	handler := events.NewExpirationHandler(scheduler)
	err = processor.AddHandlers(
		handler.OrderCreatedHandler(),
	)
	if err != nil {
		return nil, err
	}

	e := commonHTTP.NewEcho()
	srv := http.NewHealthServer(e, httpAddr, router.IsRunning)

	return &App{
		watermillLogger: watermillLogger,
		logger:          zerolog.New(os.Stdout),
		router:          router,
		srv:             srv,
		scheduler:       scheduler,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Msg("starting router")

		return a.router.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()
		a.logger.Info().Msg("router is running")

		a.logger.Info().Msg("starting expiration worker")
		return a.scheduler.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()

		a.logger.Info().Msg("starting server")
		return a.srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()

		err := a.srv.Stop(ctx)
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}

		return err
	})

	return g.Wait()
}
