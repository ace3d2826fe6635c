package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/planetdetroit/civic/internal/server/middleware"
	"github.com/planetdetroit/civic/pkg/civic"
	"github.com/planetdetroit/civic/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultNumResults = 10

// SearchHandler answers a reader question from article passages and
// attaches related civic context.
func SearchHandler(c echo.Context) error {
	type searchBody struct {
		Question     string   `json:"question" validate:"required,min=3,max=500"`
		NumResults   *int     `json:"num_results" validate:"omitempty,min=1,max=25"`
		IssuesFilter []string `json:"issues_filter" validate:"omitempty,max=8,dive,max=64"`
		Synthesize   *bool    `json:"synthesize"`
	}

	data := new(searchBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{
			Message: "Invalid request body",
		})
	}
	data.Question = strings.TrimSpace(data.Question)

	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{
			Message: "Invalid request body",
		})
	}

	req := civic.SearchRequest{
		Question:     data.Question,
		NumResults:   defaultNumResults,
		IssuesFilter: data.IssuesFilter,
		Synthesize:   true,
	}
	if data.NumResults != nil {
		req.NumResults = *data.NumResults
	}
	if data.Synthesize != nil {
		req.Synthesize = *data.Synthesize
	}

	ac := c.(*middleware.AppContext)
	res, err := ac.App.Civic.Search(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, civic.ErrRetrieval) {
			logger.Error("Search retrieval failed", "request_id", ac.RequestID, "err", err)
			return c.JSON(http.StatusBadGateway, messageResponse{
				Message: "Search is temporarily unavailable",
			})
		}
		logger.Error("Search failed", "request_id", ac.RequestID, "err", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, res)
}
