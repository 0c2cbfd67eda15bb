package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	domain "ticketing/internal/domain/orders"
	"ticketing/internal/repository"
)

type CreateOrderRequest struct {
	TicketID string `json:"ticketId"`
}

func (s *OrdersServer) CreateOrderHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request CreateOrderRequest
	err := c.Bind(&request)
	if err != nil {
		return err
	}

	order, err := s.ordersService.CreateOrder(ctx, userID(c), request.TicketID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "no ticket found"})
	}
	if errors.Is(err, domain.ErrTicketReserved) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "ticket is already reserved"})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}
