package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	domain "ticketing/internal/domain/tickets"
)

type CreateTicketRequest struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

func (s *CatalogServer) CreateTicketHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request CreateTicketRequest
	err := c.Bind(&request)
	if err != nil {
		return err
	}

	ticket, err := s.catalogService.CreateTicket(ctx, request.Title, request.Price)
	if errors.Is(err, domain.ErrInvalidPrice) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ticket)
}
