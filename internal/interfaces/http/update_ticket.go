package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	domain "ticketing/internal/domain/tickets"
	"ticketing/internal/repository"
)

type UpdateTicketRequest struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

func (s *CatalogServer) UpdateTicketHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request UpdateTicketRequest
	err := c.Bind(&request)
	if err != nil {
		return err
	}

	ticket, err := s.catalogService.UpdateTicket(ctx, c.Param("ticketId"), request.Title, request.Price)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "no ticket found"})
	}
	if errors.Is(err, domain.ErrInvalidPrice) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	}
	if errors.Is(err, repository.ErrVersionConflict) {
		return c.JSON(http.StatusConflict, ErrorResponse{Message: "ticket was modified concurrently"})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ticket)
}
