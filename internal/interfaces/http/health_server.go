package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthServer is the minimal surface of services that expose no API of
// their own.
type HealthServer struct {
	e    *echo.Echo
	addr string
}

func NewHealthServer(e *echo.Echo, addr string, routerIsRunning func() bool) *HealthServer {
	srv := &HealthServer{
		e:    e,
		addr: addr,
	}

	e.GET("/health", func(c echo.Context) error {
		if !routerIsRunning() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})

	return srv
}

func (s *HealthServer) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HealthServer) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
