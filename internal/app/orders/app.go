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
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	orders "ticketing/internal/application/orders"
	"ticketing/internal/broker"
	"ticketing/internal/interfaces/http"
	"ticketing/internal/interfaces/message/events"
	"ticketing/internal/repository"
)

// ConsumerGroup prefixes every listener's durable group name; replicas of
// this service share it, other services use their own.
const ConsumerGroup = "svc-orders"

type App struct {
	watermillLogger watermill.LoggerAdapter
	logger          zerolog.Logger
	router          *message.Router
	srv             *http.OrdersServer
	db              *sqlx.DB
}

func NewApp(
	watermillLogger watermill.LoggerAdapter,
	conn *broker.Connection,
	db *sqlx.DB,
	httpAddr string,
) (*App, error) {
	ticketsRepo := repository.NewTicketsRepo(db)
	ordersRepo := repository.NewOrdersRepo(db)

	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	eventBus, err := broker.NewEventBus(conn, watermillLogger)
	if err != nil {
		return nil, err
	}

	ordersService := orders.NewService(
		eventBus,
		ordersRepo,
		ticketsRepo,
		orders.DefaultExpirationWindow,
	)

	e := commonHTTP.NewEcho()
	srv := http.NewOrdersServer(e, httpAddr, ordersService, router.IsRunning)

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

	// skip marshalling errors before retrying
	router.AddMiddleware(events.SkipMarshallingErrorsMiddleware)

	processorConfig, err := broker.NewEventProcessorConfig(conn, ConsumerGroup, watermillLogger)
	if err != nil {
		return nil, err
	}

	processor, err := cqrs.NewEventProcessorWithConfig(router, processorConfig)
	if err != nil {
		return nil, err
	}

	handler := events.NewOrdersHandler(ticketsRepo, ordersService)
	err = processor.AddHandlers(
		handler.TicketCreatedHandler(),
		handler.TicketUpdatedHandler(),
		handler.PaymentCreatedHandler(),
		handler.ExpirationCompleteHandler(),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		watermillLogger: watermillLogger,
		logger:          zerolog.New(os.Stdout),
		router:          router,
		srv:             srv,
		db:              db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := repository.InitializeTicketsSchema(a.db); err != nil {
		return err
	}
	if err := repository.InitializeOrdersSchema(a.db); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Msg("starting router")

		return a.router.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()
		a.logger.Info().Msg("router is running")

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
