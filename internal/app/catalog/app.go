package app

import (
	"context"
	"os"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	catalog "ticketing/internal/application/catalog"
	"ticketing/internal/broker"
	"ticketing/internal/interfaces/http"
	"ticketing/internal/repository"
)

// The catalog only publishes; it runs no message router.
type App struct {
	logger zerolog.Logger
	srv    *http.CatalogServer
	db     *sqlx.DB
}

func NewApp(
	watermillLogger watermill.LoggerAdapter,
	conn *broker.Connection,
	db *sqlx.DB,
	httpAddr string,
) (*App, error) {
	ticketsRepo := repository.NewTicketsRepo(db)

	eventBus, err := broker.NewEventBus(conn, watermillLogger)
	if err != nil {
		return nil, err
	}

	cache, err := conn.Client()
	if err != nil {
		return nil, err
	}

	catalogService := catalog.NewService(eventBus, ticketsRepo, cache)

	e := commonHTTP.NewEcho()
	srv := http.NewCatalogServer(e, httpAddr, catalogService)

	return &App{
		logger: zerolog.New(os.Stdout),
		srv:    srv,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := repository.InitializeTicketsSchema(a.db); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
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
