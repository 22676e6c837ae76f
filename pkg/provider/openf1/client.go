// Package openf1 loads historical sessions from the OpenF1 REST API.
package openf1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/utils"
	"github.com/mpapenbr/pitstop-service-go/pkg/utils/cache"
)

const DefaultBaseURL = "https://api.openf1.org/v1"

var ErrUnexpectedStatus = errors.New("unexpected response status")

type (
	// filter is a single query condition, e.g. {"date", ">=", "2023-..."}
	filter struct {
		field string
		op    string
		value string
	}
	Client struct {
		baseURL string
		http    *http.Client
		store   cache.Store
		ttl     time.Duration
		log     *log.Logger
	}
	ClientOption func(*Client)
)

func eq(field string, value any) filter {
	return filter{field: field, op: "=", value: fmt.Sprint(value)}
}

func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// WithStore sets the response cache. Entries are kept for ttl (0: store default).
func WithStore(s cache.Store, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.store = s
		c.ttl = ttl
	}
}

func WithClientLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

func NewClient(opts ...ClientOption) *Client {
	ret := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     log.Default().Named("provider.openf1"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func buildQuery(filters []filter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, url.QueryEscape(f.field)+f.op+url.QueryEscape(f.value))
	}
	return strings.Join(parts, "&")
}

// fetch returns the parsed json document of endpoint.
// Responses are served from the store when possible.
func (c *Client) fetch(ctx context.Context, endpoint string, filters ...filter) (any, error) {
	query := buildQuery(filters)
	key := utils.CacheKey(endpoint, query)
	if c.store != nil {
		if data, err := c.store.Get(ctx, key); err == nil {
			c.log.Debug("cache hit", log.String("endpoint", endpoint), log.String("query", query))
			return oj.Parse(data)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.log.Warn("cache lookup failed", log.ErrorField(err))
		}
	}
	data, err := c.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid response from %s: %w", endpoint, err)
	}
	if c.store != nil {
		if err := c.store.Put(ctx, key, data, c.ttl); err != nil {
			c.log.Warn("cache store failed", log.ErrorField(err))
		}
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, endpoint, query string) ([]byte, error) {
	target := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if query != "" {
		target += "?" + query
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.log.Debug("fetched",
		log.String("url", target),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", len(data)),
		log.Duration("duration", time.Since(start)))
	switch resp.StatusCode {
	case http.StatusOK:
		return data, nil
	case http.StatusNotFound:
		// no matching records
		return []byte("[]"), nil
	default:
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, endpoint, resp.StatusCode)
	}
}
