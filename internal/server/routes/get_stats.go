package routes

import (
	"net/http"

	"github.com/planetdetroit/civic/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

type messageResponse struct {
	Message string `json:"message"`
}

// GetStatsHandler reports the size of the searchable corpus.
func GetStatsHandler(c echo.Context) error {
	ac := c.(*middleware.AppContext)
	return c.JSON(http.StatusOK, ac.App.Stats.Stats(c.Request().Context()))
}
