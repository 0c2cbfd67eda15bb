package http

import (
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
)

const userIDHeader = "X-User-Id"

// RequireUser extracts the already-authenticated user identifier set by the
// auth layer in front of this service. Session handling itself lives there;
// these services only consume the propagated identity.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.Request().Header.Get(userIDHeader)
		if userID == "" {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "not authenticated"})
		}

		c.Set("user_id", userID)
		return next(c)
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

func loggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log.FromContext(c.Request().Context()).
			WithField("path", c.Request().URL.Path).
			Info("Handling a request")

		err := next(c)

		if err != nil {
			log.FromContext(c.Request().Context()).
				WithField("error", err).
				Error("Request handling error")
		}

		return err
	}
}

type ErrorResponse struct {
	Message string `json:"message"`
}
