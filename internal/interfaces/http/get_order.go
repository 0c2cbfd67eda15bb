package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"ticketing/internal/repository"
)

func (s *OrdersServer) GetOrderHandler(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := s.ordersService.GetOrder(ctx, c.Param("orderId"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "no order found"})
	}
	if err != nil {
		return err
	}

	if order.UserID != userID(c) {
		return c.JSON(http.StatusForbidden, ErrorResponse{Message: "not authorized to get this order"})
	}

	return c.JSON(http.StatusOK, order)
}
