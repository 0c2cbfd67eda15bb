package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	orders "ticketing/internal/application/orders"
)

type OrdersServer struct {
	e    *echo.Echo
	addr string

	ordersService *orders.Service
}

func NewOrdersServer(
	e *echo.Echo,
	addr string,
	ordersService *orders.Service,
	routerIsRunning func() bool,
) *OrdersServer {
	srv := &OrdersServer{
		e:             e,
		addr:          addr,
		ordersService: ordersService,
	}

	authenticated := e.Group("/api/orders", RequireUser)
	authenticated.POST("", srv.CreateOrderHandler)
	authenticated.GET("", srv.ListOrdersHandler)
	authenticated.GET("/:orderId", srv.GetOrderHandler)
	authenticated.DELETE("/:orderId", srv.CancelOrderHandler)

	e.GET("/health", func(c echo.Context) error {
		if !routerIsRunning() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})

	e.Use(loggingMiddleware)

	return srv
}

func (s *OrdersServer) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *OrdersServer) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
