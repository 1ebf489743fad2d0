package github

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	perr "zkcommit/internal/platform/errors"
)

// GHStatusError wraps non-2xx HTTP responses from GitHub
type GHStatusError struct {
	Status int
	Body   string
	Wait   time.Duration
	Err    error
}

// Error interface
func (e *GHStatusError) Error() string { return e.Err.Error() }

// Unwrap interface
func (e *GHStatusError) Unwrap() error { return e.Err }

// HTTPStatus interface
func (e *GHStatusError) HTTPStatus() int { return e.Status }

// statusError classifies a non-2xx response into a coded error
func statusError(status int, body string, wait time.Duration) error {
	var code perr.ErrorCode
	var msg string
	switch status {
	case http.StatusNotFound:
		code, msg = perr.ErrorCodeNotFound, "github commit not found"
	case http.StatusForbidden, http.StatusTooManyRequests:
		code, msg = perr.ErrorCodeTooManyRequests, "github rate limited"
		if wait > 0 {
			msg = fmt.Sprintf("github rate limited, retry in %s", wait.Round(time.Second))
		}
	default:
		code, msg = perr.ErrorCodeUpstream, fmt.Sprintf("github unexpected status %d", status)
	}
	return perr.Wrap(&GHStatusError{
		Status: status,
		Body:   strings.TrimSpace(body),
		Wait:   wait,
		Err:    fmt.Errorf("status %d", status),
	}, code, msg)
}

func parseRateHeaders(h http.Header) (remaining int, reset time.Time, retryAfter int) {
	remaining = atoi(h.Get("X-RateLimit-Remaining"))
	rs := h.Get("X-RateLimit-Reset")
	if rs != "" {
		sec := atoi(rs)
		if sec > 0 {
			reset = time.Unix(int64(sec), 0).UTC()
		}
	}
	retryAfter = atoi(h.Get("Retry-After"))
	return
}

// computeWait reports how long GitHub asks us to hold off; zero when unknown
func computeWait(remaining int, reset time.Time, retryAfter int, now time.Time) time.Duration {
	if retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	if remaining <= 0 && !reset.IsZero() && reset.After(now) {
		return reset.Sub(now)
	}
	return 0
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// IsRateLimited reports whether err is a GHStatusError with 429 or 403 status
func IsRateLimited(err error) bool {
	var gse *GHStatusError
	if errors.As(err, &gse) {
		// GitHub may use 429 or 403 (secondary RL)
		return gse.Status == http.StatusTooManyRequests || gse.Status == http.StatusForbidden
	}
	return false
}

// StatusOf returns the GitHub status carried by err, or 0
func StatusOf(err error) int {
	var gse *GHStatusError
	if errors.As(err, &gse) {
		return gse.Status
	}
	return 0
}

// RetryAfter returns how long GitHub asked callers to hold off, or 0
func RetryAfter(err error) time.Duration {
	var gse *GHStatusError
	if errors.As(err, &gse) {
		return gse.Wait
	}
	return 0
}
