package server

import (
	"github.com/planetdetroit/civic/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	apiRoutes.GET("/stats", routes.GetStatsHandler)
	apiRoutes.POST("/search", routes.SearchHandler)
	apiRoutes.POST("/analyze-article", routes.AnalyzeArticleHandler)
}
