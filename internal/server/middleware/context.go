package middleware

import (
	"context"

	"github.com/planetdetroit/civic/pkg/civic"
	"github.com/planetdetroit/civic/pkg/loader"
	"github.com/planetdetroit/civic/pkg/logger"
	"github.com/planetdetroit/civic/pkg/store"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const RequestIDHeader = "X-Request-ID"

// CivicService is the part of the civic pipeline the HTTP layer calls.
type CivicService interface {
	Search(ctx context.Context, req civic.SearchRequest) (*civic.SearchResult, error)
	AnalyzeArticle(ctx context.Context, articleText string) *civic.AnalyzeResult
}

type StatsSource interface {
	Stats(ctx context.Context) store.Stats
}

type App struct {
	Civic  CivicService
	Stats  StatsSource
	Loader loader.ArticleLoader
}

type AppContext struct {
	echo.Context
	App       *App
	RequestID string
}

// AppContextMiddleware wraps every request in an AppContext. An inbound
// X-Request-ID is kept, otherwise a new one is generated; either way it is
// echoed on the response.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" || len(id) > 64 {
				generated, err := gonanoid.New()
				if err != nil {
					logger.Warn("Failed to generate request id", "err", err)
				}
				id = generated
			}
			c.Response().Header().Set(RequestIDHeader, id)

			cc := &AppContext{c, app, id}
			return next(cc)
		}
	}
}
