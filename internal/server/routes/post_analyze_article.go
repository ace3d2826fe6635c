package routes

import (
	"net/http"
	"strings"

	"github.com/planetdetroit/civic/internal/server/middleware"
	"github.com/planetdetroit/civic/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyzeArticleHandler analyzes an article, given as text or as a URL to
// fetch, and returns the related civic context.
func AnalyzeArticleHandler(c echo.Context) error {
	type analyzeArticleBody struct {
		ArticleText string `json:"article_text" validate:"max=100000"`
		ArticleURL  string `json:"article_url" validate:"omitempty,url,max=2048"`
	}

	data := new(analyzeArticleBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{
			Message: "Invalid request body",
		})
	}
	data.ArticleText = strings.TrimSpace(data.ArticleText)
	data.ArticleURL = strings.TrimSpace(data.ArticleURL)

	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{
			Message: "Invalid request body",
		})
	}
	if data.ArticleText == "" && data.ArticleURL == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{
			Message: "article_text or article_url is required",
		})
	}

	ac := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	text := data.ArticleText
	if text == "" {
		if ac.App.Loader == nil {
			return c.JSON(http.StatusBadRequest, messageResponse{
				Message: "article_text is required",
			})
		}
		fetched, err := ac.App.Loader.FetchText(ctx, data.ArticleURL)
		if err != nil {
			logger.Warn("Failed to load article", "request_id", ac.RequestID, "url", data.ArticleURL, "err", err)
			return c.JSON(http.StatusUnprocessableEntity, messageResponse{
				Message: "Could not load article from article_url",
			})
		}
		text = fetched
	}

	res := ac.App.Civic.AnalyzeArticle(ctx, text)
	return c.JSON(http.StatusOK, res)
}
