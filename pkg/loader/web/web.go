package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/planetdetroit/civic/internal/util"
	"github.com/planetdetroit/civic/pkg/loader"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	maxBodyBytes   = 5 << 20
	maxCachedBytes = 256 << 10
	defaultTimeout = 20 * time.Second

	cacheSize = 128
	cacheTTL  = time.Hour
)

// WebArticleLoader fetches article pages and extracts their readable text.
// Results are kept in a bounded LRU per normalized URL and concurrent
// requests for the same URL share one fetch.
type WebArticleLoader struct {
	client *http.Client

	cache *expirable.LRU[string, string]
	group singleflight.Group
}

var _ loader.ArticleLoader = (*WebArticleLoader)(nil)

// NewWebArticleLoader creates a loader. A nil client uses NewPublicClient
// with a 20 second timeout, which refuses internal addresses.
func NewWebArticleLoader(client *http.Client) *WebArticleLoader {
	if client == nil {
		client = NewPublicClient(defaultTimeout)
	}
	return &WebArticleLoader{
		client: client,
		cache:  expirable.NewLRU[string, string](cacheSize, nil, cacheTTL),
	}
}

// FetchText returns the article text behind rawURL. HTML pages are reduced
// to their main content with readability; plain text is returned as is.
func (l *WebArticleLoader) FetchText(ctx context.Context, rawURL string) (string, error) {
	key, err := loader.CacheKey(rawURL)
	if err != nil {
		return "", err
	}

	if cached, ok := l.cache.Get(key); ok {
		return cached, nil
	}

	// The shared fetch outlives any single caller; each caller stops
	// waiting when its own context ends.
	ch := l.group.DoChan(key, func() (any, error) {
		if cached, ok := l.cache.Get(key); ok {
			return cached, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
		defer cancel()
		text, err := l.fetch(fetchCtx, key)
		if err != nil {
			return "", err
		}
		if len(text) <= maxCachedBytes {
			l.cache.Add(key, text)
		}
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (l *WebArticleLoader) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,text/plain;q=0.9")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch url: status %d", resp.StatusCode)
	}
	body := io.LimitReader(resp.Body, maxBodyBytes)

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "text/html"):
		u, err := url.Parse(pageURL)
		if err != nil {
			return "", fmt.Errorf("failed to parse url: %w", err)
		}
		article, err := readability.FromReader(body, u)
		if err != nil {
			return "", fmt.Errorf("failed to parse html: %w", err)
		}
		var builder strings.Builder
		if err := article.RenderText(&builder); err != nil {
			return "", fmt.Errorf("failed to render article text: %w", err)
		}
		return clean(builder.String())
	case strings.Contains(contentType, "text/plain"):
		raw, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		return clean(string(raw))
	}
	return "", fmt.Errorf("unsupported content type %q", contentType)
}

func clean(text string) (string, error) {
	text = strings.TrimSpace(util.SanitizeText(text))
	if text == "" {
		return "", fmt.Errorf("no readable text found")
	}
	return text, nil
}
