package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	catalog "ticketing/internal/application/catalog"
)

type CatalogServer struct {
	e    *echo.Echo
	addr string

	catalogService *catalog.Service
}

func NewCatalogServer(
	e *echo.Echo,
	addr string,
	catalogService *catalog.Service,
) *CatalogServer {
	srv := &CatalogServer{
		e:              e,
		addr:           addr,
		catalogService: catalogService,
	}

	e.POST("/api/tickets", srv.CreateTicketHandler, RequireUser)
	e.PUT("/api/tickets/:ticketId", srv.UpdateTicketHandler, RequireUser)
	e.GET("/api/tickets", srv.GetTicketsHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.Use(loggingMiddleware)

	return srv
}

func (s *CatalogServer) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *CatalogServer) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
