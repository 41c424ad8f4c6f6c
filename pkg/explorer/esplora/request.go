package esplora

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/permavault/permavault-daemon/pkg/explorer"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// doGet performs a GET request, retrying with exponential backoff on network
// and server errors. Client errors (4xx) are returned at first occurrence.
func (e *esplora) doGet(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := e.cfg.BaseBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := e.do(ctx, http.MethodGet, path, nil)
		if err == nil {
			return body, nil
		}
		if !isRetriable(err) {
			return nil, err
		}
		lastErr = err
		log.WithError(err).Debugf(
			"esplora: GET %s failed (attempt %d/%d)", path, attempt+1,
			e.cfg.MaxAttempts,
		)
	}

	return nil, fmt.Errorf(
		"%w: request failed after %d attempts: %s",
		explorer.ErrUpstreamUnavailable, e.cfg.MaxAttempts, lastErr,
	)
}

// doPost performs a single POST request with a text/plain body.
func (e *esplora) doPost(ctx context.Context, path, body string) ([]byte, error) {
	resp, err := e.do(ctx, http.MethodPost, path, []byte(body))
	if err != nil {
		var httpErr *explorer.HTTPError
		if errors.As(err, &httpErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", explorer.ErrUpstreamUnavailable, err)
	}
	return resp, nil
}

func (e *esplora) do(
	ctx context.Context, method, path string, payload []byte,
) ([]byte, error) {
	e.limiter.Take()

	result, err := e.cb.Execute(func() (interface{}, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, e.cfg.URL+path, body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "text/plain")
		}

		started := time.Now()
		resp, err := e.client.Do(req)
		if err != nil {
			requestsTotal.WithLabelValues(method, "error").Inc()
			return nil, err
		}
		defer resp.Body.Close()
		requestDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			requestsTotal.WithLabelValues(method, "error").Inc()
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		requestsTotal.WithLabelValues(method, http.StatusText(resp.StatusCode)).Inc()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &explorer.HTTPError{
				StatusCode: resp.StatusCode,
				Body:       string(bytes.TrimSpace(respBody)),
			}
		}
		return respBody, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", explorer.ErrUpstreamUnavailable, err)
		}
		return nil, err
	}
	return result.([]byte), nil
}

func isRetriable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, explorer.ErrUpstreamUnavailable) {
		return false
	}
	var httpErr *explorer.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// isSuccessful makes client errors (4xx) not count as circuit breaker
// failures.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var httpErr *explorer.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode < 500
	}
	return false
}
