package serpapi

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/shopping-search/internal/config"
	"github.com/nguyentranbao-ct/shopping-search/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
)

// RawPayload is an undecoded provider response body.
type RawPayload []byte

type Client interface {
	Fetch(ctx context.Context, query string) (RawPayload, error)
}

type Options struct {
	BaseURL     string
	APIKey      string
	Engine      string
	Location    string
	Language    string
	Region      string
	ResultCount int
	Timeout     time.Duration
}

type client struct {
	http    *resty.Client
	opts    Options
	metrics *prometheus.HistogramVec
}

func NewClient(conf *config.Config) (Client, error) {
	metrics, err := util.GetHistogramVec("serpapi_request_duration_seconds", "status")
	if err != nil {
		return nil, err
	}
	return newClient(Options{
		BaseURL:     conf.SerpAPI.BaseURL,
		APIKey:      conf.SerpAPI.APIKey,
		Engine:      conf.SerpAPI.Engine,
		Location:    conf.SerpAPI.Location,
		Language:    conf.SerpAPI.Language,
		Region:      conf.SerpAPI.Region,
		ResultCount: conf.SerpAPI.ResultCount,
		Timeout:     conf.SerpAPI.Timeout,
	}, metrics), nil
}

func newClient(opts Options, metrics *prometheus.HistogramVec) *client {
	return &client{
		http:    util.NewRestyClient(opts.Timeout),
		opts:    opts,
		metrics: metrics,
	}
}

// Fetch makes a single attempt against the search endpoint.
func (c *client) Fetch(ctx context.Context, query string) (RawPayload, error) {
	if c.opts.APIKey == "" {
		return nil, &ConfigurationError{Setting: "SERPAPI_API_KEY"}
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":   c.opts.Engine,
			"q":        query,
			"api_key":  c.opts.APIKey,
			"location": c.opts.Location,
			"hl":       c.opts.Language,
			"gl":       c.opts.Region,
			"num":      strconv.Itoa(c.opts.ResultCount),
		}).
		Get(strings.TrimRight(c.opts.BaseURL, "/") + "/search")
	if err != nil {
		c.observe("error", start)
		return nil, &ProviderError{Err: err}
	}
	c.observe(strconv.Itoa(resp.StatusCode()), start)

	if !resp.IsSuccess() {
		status := strings.TrimSpace(strings.TrimPrefix(resp.Status(), strconv.Itoa(resp.StatusCode())))
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Status: status}
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Message: "response is not valid JSON"}
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() && msg.String() != "" {
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Message: msg.String()}
	}

	return RawPayload(body), nil
}

func (c *client) observe(status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
