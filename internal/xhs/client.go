package xhs

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"xhs-downloader-go/internal/cache"
	"xhs-downloader-go/internal/config"
)

const htmlAccept = "text/html,application/xhtml+xml,application/xml;q=1.0,image/avif,image/webp,image/apng,*/*;q=1.0"

// Client issues the page-level requests: post HTML fetch and short-link
// redirect resolution. CDN asset downloads live in the downloader package.
type Client struct {
	http     *resty.Client
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewClient(cfg config.Config, c cache.Cache) *Client {
	connect := time.Duration(cfg.HttpConnectTimeoutSec) * time.Second
	if connect <= 0 {
		connect = 30 * time.Second
	}
	read := time.Duration(cfg.HttpReadTimeoutSec) * time.Second
	if read <= 0 {
		read = 60 * time.Second
	}

	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: connect}).DialContext,
		ResponseHeaderTimeout: read,
		MaxIdleConns:          10,
		IdleConnTimeout:       5 * time.Minute,
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   read,
	}

	client := resty.NewWithClient(httpClient)
	client.SetHeaders(map[string]string{
		"User-Agent": cfg.UserAgent,
		"Accept":     htmlAccept,
	})

	ttl := time.Duration(cfg.CacheDefaultTTLSec) * time.Second
	return &Client{http: client, cache: c, cacheTTL: ttl}
}

// FetchPostHTML performs one GET for the post page. Non-2xx and transport
// failures are errors; there is no retry at this layer.
func (c *Client) FetchPostHTML(ctx context.Context, url string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(normalizeScheme(url))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch post details: status %d", resp.StatusCode())
	}
	return resp.String(), nil
}

// ResolveShortLink follows redirects for an xhslink.com URL and returns the
// final resolved URL, read from the completed request rather than any
// Location header. Resolutions are memoized in the cache.
func (c *Client) ResolveShortLink(ctx context.Context, shortURL string) (string, error) {
	key := shortLinkCacheKey(shortURL)
	if c.cache != nil {
		if v, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return string(v), nil
		}
	}

	resp, err := c.http.R().SetContext(ctx).Get(normalizeScheme(shortURL))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("resolve short link: status %d", resp.StatusCode())
	}
	final := shortURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		final = raw.Request.URL.String()
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, []byte(final), c.cacheTTL)
	}
	return final, nil
}

// shortLinkCacheKey namespaces resolved short links so other cached data can
// share the same backend without key collisions.
func shortLinkCacheKey(shortURL string) string {
	return "shortlink:" + shortURL
}

func normalizeScheme(url string) string {
	if strings.Contains(url, "://") {
		return url
	}
	return "https://" + url
}
