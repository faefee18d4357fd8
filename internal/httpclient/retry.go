package httpclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryPolicy controls retries after a 429/5xx response. Used by DoWithRetry.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first. Minimum 1.
	Attempts int
	// Backoff is the wait before the second try; it doubles on each further try.
	Backoff time.Duration
	// Max429Wait caps a server-provided Retry-After wait.
	Max429Wait time.Duration
}

// DefaultRetryPolicy: three tries, 300ms doubling backoff, Retry-After capped at 60s.
var DefaultRetryPolicy = RetryPolicy{
	Attempts:   3,
	Backoff:    300 * time.Millisecond,
	Max429Wait: 60 * time.Second,
}

// DoWithRetry performs req, retrying on 429 and 5xx per policy. 4xx responses
// other than 429 are returned as-is without retrying. Only GET-style requests
// without a body can be retried. Caller must close resp.Body when err == nil.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy) (*http.Response, error) {
	if client == nil {
		client = Default()
	}
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := policy.Backoff
	if backoff <= 0 {
		backoff = 300 * time.Millisecond
	}

	var resp *http.Response
	var err error
	for try := 0; try < attempts; try++ {
		if try > 0 {
			req, err = cloneRequest(ctx, req)
			if err != nil {
				return nil, err
			}
		}
		resp, err = client.Do(req)
		if err != nil {
			if try == attempts-1 {
				return nil, err
			}
			if werr := sleepCtx(ctx, backoff); werr != nil {
				return nil, werr
			}
			backoff *= 2
			continue
		}
		code := resp.StatusCode
		if code < 500 && code != http.StatusTooManyRequests {
			return resp, nil
		}
		if try == attempts-1 {
			return resp, nil
		}
		wait := backoff
		if code == http.StatusTooManyRequests {
			wait = parseRetryAfter(resp.Header.Get("Retry-After"), policy.Max429Wait)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if werr := sleepCtx(ctx, wait); werr != nil {
			return nil, werr
		}
		backoff *= 2
	}
	return resp, err
}

func cloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	r, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Header {
		r.Header[k] = v
	}
	return r, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// parseRetryAfter parses Retry-After (seconds or HTTP-date); returns duration capped at max.
func parseRetryAfter(s string, max time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if max <= 0 {
		max = 60 * time.Second
	}
	if s == "" {
		return 1 * time.Second
	}
	if sec, err := strconv.Atoi(s); err == nil && sec >= 0 {
		d := time.Duration(sec) * time.Second
		if d > max {
			return max
		}
		return d
	}
	t, err := time.Parse(time.RFC1123, s)
	if err != nil {
		return 1 * time.Second
	}
	until := time.Until(t)
	if until <= 0 {
		return 0
	}
	if until > max {
		return max
	}
	return until
}
