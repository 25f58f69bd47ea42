package killbill

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/metrics"
)

// Kill Bill request headers.
const (
	HeaderAPIKey    = "X-Killbill-ApiKey"
	HeaderAPISecret = "X-Killbill-ApiSecret"
	HeaderCreatedBy = "X-Killbill-CreatedBy"
	HeaderReason    = "X-Killbill-Reason"
	HeaderComment   = "X-Killbill-Comment"

	HeaderTotalNbRecords = "X-Killbill-Pagination-TotalNbRecords"
	HeaderMaxNbRecords   = "X-Killbill-Pagination-MaxNbRecords"
)

// DefaultCreatedBy is the audit user sent when the caller did not name one.
const DefaultCreatedBy = "kaui"

// Cache stores short lived lookups such as plugin availability.
// Get returns an empty string on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RequestOptions are the per request tenant credentials and audit fields.
// Empty credentials fall back to the client configuration.
type RequestOptions struct {
	APIKey    string
	APISecret string
	CreatedBy string
	Reason    string
	Comment   string
}

type Option func(*Client)

// WithCache enables caching of plugin availability.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// Client talks to the Kill Bill REST API.
type Client struct {
	http    *resty.Client
	cfg     Config
	cache   Cache
	metrics *metrics.KillBillMetrics
}

func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		metrics: metrics.KillBill(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(cfg.URL).
		SetBasicAuth(cfg.Username, cfg.Password).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			c.metrics.ObserveRequest(resp.Request.Method, resp.StatusCode(), resp.Time())
			return nil
		}).
		OnError(func(_ *resty.Request, err error) {
			if _, ok := err.(*resty.ResponseError); !ok {
				c.metrics.TransportErrors.Inc()
			}
		})

	return c
}

// Config returns the connection settings the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) request(ctx context.Context, opts RequestOptions) *resty.Request {
	apiKey, apiSecret := opts.APIKey, opts.APISecret
	if apiKey == "" {
		apiKey, apiSecret = c.cfg.APIKey, c.cfg.APISecret
	}
	createdBy := opts.CreatedBy
	if createdBy == "" {
		createdBy = DefaultCreatedBy
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderAPIKey, apiKey).
		SetHeader(HeaderAPISecret, apiSecret).
		SetHeader(HeaderCreatedBy, createdBy)
	if opts.Reason != "" {
		req.SetHeader(HeaderReason, opts.Reason)
	}
	if opts.Comment != "" {
		req.SetHeader(HeaderComment, opts.Comment)
	}
	return req
}

// execute sends req and turns any non 2xx answer into an *Error.
func (c *Client) execute(req *resty.Request, method, url string) (*resty.Response, error) {
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	if resp.IsError() {
		return resp, newError(resp)
	}
	return resp, nil
}

func decode(resp *resty.Response, out any) error {
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", resp.Request.Method, resp.Request.URL, err)
	}
	return nil
}

// createdID returns the last path segment of the Location header of a 201.
func createdID(resp *resty.Response) (string, error) {
	loc := resp.Header().Get("Location")
	if loc == "" {
		return "", fmt.Errorf("%s %s: no Location header in %d response", resp.Request.Method, resp.Request.URL, resp.StatusCode())
	}
	u, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("parse Location %q: %w", loc, err)
	}
	id := path.Base(u.Path)
	if id == "" || id == "/" || id == "." {
		return "", fmt.Errorf("no id in Location %q", loc)
	}
	return id, nil
}

func headerInt(resp *resty.Response, name string) int {
	n, _ := strconv.Atoi(resp.Header().Get(name))
	return n
}

func isNoContent(resp *resty.Response) bool {
	return resp.StatusCode() == http.StatusNoContent || len(resp.Body()) == 0
}
