// Package fetcher downloads ad pages.
package fetcher

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; reddit-archivebot/1.0)"

// Fetcher makes a single GET per page. Retrying is up to the caller, which can
// tell a removed ad (domain.ErrPageNotFound) from any other failure
// (domain.ErrPageUnavailable).
type Fetcher struct {
	http    *resty.Client
	limiter *rate.Limiter
}

// New creates a Fetcher that issues at most one request every interval.
func New(interval time.Duration) *Fetcher {
	client := resty.New()
	client.SetHeader("User-Agent", defaultUserAgent)
	client.SetTimeout(30 * time.Second)

	return &Fetcher{
		http:    client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Fetch returns the body of the page at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", errors.Wrapf(domain.ErrPageUnavailable, "%s: %v", url, err)
	}

	res, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", errors.Wrapf(domain.ErrPageUnavailable, "%s: %v", url, err)
	}

	switch code := res.StatusCode(); {
	case code == http.StatusNotFound || code == http.StatusGone:
		return "", errors.Wrapf(domain.ErrPageNotFound, "%s: status %d", url, code)
	case code < 200 || code >= 300:
		return "", errors.Wrapf(domain.ErrPageUnavailable, "%s: status %d", url, code)
	}
	return res.String(), nil
}
