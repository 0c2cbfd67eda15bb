package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *OrdersServer) ListOrdersHandler(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := s.ordersService.ListOrders(ctx, userID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}
