package loader

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

var ErrUnsupportedURL = errors.New("only absolute http and https urls can be loaded")

// ArticleLoader fetches the readable body text of a published article.
// Implementations may load from the web, a CMS export or a local fixture.
type ArticleLoader interface {
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// CacheKey normalizes an article URL so that equivalent addresses share a
// cache entry: the scheme and host are lowercased and the fragment is
// dropped.
func CacheKey(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrUnsupportedURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return u.String(), nil
}
