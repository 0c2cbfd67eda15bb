package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"ticketing/internal/repository"
)

func (s *OrdersServer) CancelOrderHandler(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := s.ordersService.GetOrder(ctx, c.Param("orderId"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "no order found"})
	}
	if err != nil {
		return err
	}

	if order.UserID != userID(c) {
		return c.JSON(http.StatusForbidden, ErrorResponse{Message: "not authorized to cancel this order"})
	}

	if _, err := s.ordersService.CancelOrder(ctx, order.ID); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return c.JSON(http.StatusConflict, ErrorResponse{Message: "order was modified concurrently"})
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
