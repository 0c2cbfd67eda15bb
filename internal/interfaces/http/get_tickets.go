package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *CatalogServer) GetTicketsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	tickets, err := s.catalogService.ListTickets(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tickets)
}
