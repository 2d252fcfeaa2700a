package directions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	maxErrorBody  = 4 << 10
	maxRetryAfter = 10 * time.Second
)

// httpStatusError is a non-2xx answer of a map API.
type httpStatusError struct {
	Code int
	Body string
	// RetryAfter is the wait the server asked for, zero when it did not.
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (e *httpStatusError) temporary() bool {
	switch e.Code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// apiClient is the HTTP plumbing shared by the map API adapters: it sets
// authentication headers and retries transient failures.
type apiClient struct {
	session    *http.Client
	headers    map[string]string
	maxAttempt int
	backoff    time.Duration
}

func newAPIClient(timeout time.Duration, headers map[string]string) *apiClient {
	return &apiClient{
		session:    &http.Client{Timeout: timeout},
		headers:    headers,
		maxAttempt: 4,
		backoff:    200 * time.Millisecond,
	}
}

func (c *apiClient) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send performs one attempt. Error bodies are read up to maxErrorBody.
func (c *apiClient) send(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &httpStatusError{
		Code:       resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// doWithRetry sends the request built by makeReq until it succeeds, fails
// permanently or maxAttempt is reached. Waits double from backoff unless
// the server sent Retry-After.
func (c *apiClient) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	wait := c.backoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.send(req)
		if err == nil {
			return resp, nil
		}

		delay, retry := retryDelay(err, wait)
		if !retry || attempt >= c.maxAttempt {
			return nil, err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

// retryDelay reports whether err is transient and how long to wait first.
func retryDelay(err error, wait time.Duration) (time.Duration, bool) {
	var he *httpStatusError
	if errors.As(err, &he) {
		if !he.temporary() {
			return 0, false
		}
		if he.RetryAfter > 0 {
			return he.RetryAfter, true
		}
		return wait, true
	}

	var netErr net.Error
	return wait, errors.As(err, &netErr)
}

// parseRetryAfter reads the delay-seconds form of Retry-After, capped at
// maxRetryAfter. HTTP dates and garbage yield zero.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}
