// Package github provides a paced GitHub REST v3 client for commit signatures
package github

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	perr "zkcommit/internal/platform/errors"
	"zkcommit/internal/platform/logger"
)

const (
	baseURLDefault = "https://api.github.com"
	defaultTimeout = 10 * time.Second
	defaultUA      = "zkcommit"
	defaultRPS     = 1.0
	defaultBurst   = 2
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Comma separated tokens passed in from CLI or config
	// Empty means anonymous calls which share a small per-IP quota
	TokensCSV string

	// Outbound pacing; one process should not burn the whole quota
	RatePerSec float64
	Burst      int

	// HTTPClient overrides the transport, mostly for tests
	HTTPClient *http.Client
}

// Client is a minimal GitHub REST client with token rotation and outbound pacing
type Client struct {
	http    *http.Client
	opts    Options
	tokens  []string
	cur     atomic.Int32
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.RatePerSec <= 0 {
		o.RatePerSec = defaultRPS
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}
	var toks []string
	if s := strings.TrimSpace(o.TokensCSV); s != "" {
		for t := range strings.SplitSeq(s, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				toks = append(toks, t)
			}
		}
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		http:    hc,
		opts:    o,
		tokens:  toks,
		limiter: rate.NewLimiter(rate.Limit(o.RatePerSec), o.Burst),
		log:     *logger.Named("github"),
		now:     time.Now,
	}
}

// getToken returns the next token in a round robin rotation
func (c *Client) getToken() string {
	n := int(c.cur.Add(1))
	if len(c.tokens) == 0 {
		return ""
	}
	return c.tokens[n%len(c.tokens)]
}

// Do issues a single GET-style request with auth headers and pacing
// Non-2xx statuses are returned as coded errors and the body is closed
func (c *Client) Do(ctx context.Context, method, path string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github request cancelled")
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeTooManyRequests, "github pacing wait exceeds deadline")
	}

	url := c.opts.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "github new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if tok := c.getToken(); tok != "" {
		req.Header.Set("Authorization", "token "+tok)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github do failed")
	}

	rem, reset, retryAfter := parseRateHeaders(resp.Header)
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Int("rate_remaining", rem).
		Time("rate_reset", reset).
		Int("retry_after_s", retryAfter).
		Msg("github http response")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	_ = resp.Body.Close()
	return nil, statusError(resp.StatusCode, string(body), computeWait(rem, reset, retryAfter, c.now()))
}
