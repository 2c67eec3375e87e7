// Package transport layers retry and concurrency limits over an *http.Client.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/storelocator/internal/logger"
)

// RequestIDHeader carries the per-request id set by the api client.
const RequestIDHeader = "X-Request-Id"

type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	HTTPClient  *http.Client
	Retries     int           // 0 sends every request exactly once
	Concurrency int           // max in-flight requests, 0 = unbounded
	BaseDelay   time.Duration // backoff base
	MaxDelay    time.Duration // backoff cap
	Logger      *zap.SugaredLogger
}

func (o Options) validate() error {
	if o.HTTPClient == nil {
		return fmt.Errorf("HTTPClient is nil")
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("Concurrency must be >= 0")
	}
	if o.Retries < 0 {
		return fmt.Errorf("Retries must be >= 0")
	}
	return nil
}

// Build stacks the layers selected by opts: the base client, then retry, then
// the concurrency gate on the outside.
func Build(opts Options) (Transport, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 300 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 8 * time.Second
	}

	var t Transport = &HTTPTransport{Client: opts.HTTPClient}

	if opts.Retries > 0 {
		t = &RetryTransport{
			Base:       t,
			MaxRetries: opts.Retries,
			BaseDelay:  opts.BaseDelay,
			MaxDelay:   opts.MaxDelay,
			Log:        opts.Logger,
		}
	}

	if opts.Concurrency > 0 {
		t = &ConcurrencyTransport{
			Base: t,
			sem:  newSemaphore(opts.Concurrency),
		}
	}

	return t, nil
}

type HTTPTransport struct {
	Client *http.Client
}

func (h *HTTPTransport) Do(req *http.Request) (*http.Response, error) {
	return h.Client.Do(req)
}

type semaphore struct {
	ch chan struct{}
}

func newSemaphore(n int) *semaphore {
	if n <= 0 {
		n = 1
	}
	return &semaphore{ch: make(chan struct{}, n)}
}

func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() { <-s.ch }

// ConcurrencyTransport holds a slot for the whole round trip. The slot is
// released when Do returns, before the caller reads the body.
type ConcurrencyTransport struct {
	Base Transport
	sem  *semaphore
}

func (t *ConcurrencyTransport) Do(req *http.Request) (*http.Response, error) {
	if err := t.sem.acquire(req.Context()); err != nil {
		return nil, err
	}
	defer t.sem.release()

	return t.Base.Do(req)
}

// RetryTransport resends lookups and searches on 429, 5xx and network errors
// with jittered exponential backoff. A numeric Retry-After on 429 replaces the
// backoff. Item submissions and other non-idempotent requests go out once so
// the service's verdict reaches the user unchanged.
type RetryTransport struct {
	Base       Transport
	MaxRetries int

	BaseDelay time.Duration
	MaxDelay  time.Duration

	Log *zap.SugaredLogger
}

func (r *RetryTransport) Do(req *http.Request) (*http.Response, error) {
	if !idempotent(req.Method) {
		return r.Base.Do(req)
	}

	l := r.Log
	if l == nil {
		l = logger.Nop()
	}
	l = l.With(
		"request_id", req.Header.Get(RequestIDHeader),
		"method", req.Method,
		"path", req.URL.Path,
	)

	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if err := req.Context().Err(); err != nil {
			return nil, err
		}

		resp, err := r.Base.Do(req.Clone(req.Context()))
		if err == nil && resp != nil {
			if !shouldRetryStatus(resp.StatusCode) || attempt == r.MaxRetries {
				return resp, nil
			}

			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 32*1024))
			_ = resp.Body.Close()

			lastErr = fmt.Errorf("store service answered %d", resp.StatusCode)
			l.Warnw("store service busy, retrying",
				"attempt", attempt+1,
				"max_attempts", r.MaxRetries+1,
				"status", resp.StatusCode,
			)

			if resp.StatusCode == http.StatusTooManyRequests {
				if d := retryAfterDelay(resp); d > 0 {
					if err := sleepCtx(req.Context(), d); err != nil {
						return nil, err
					}
					continue
				}
			}
		} else {
			if !shouldRetryError(err) {
				return nil, err
			}
			lastErr = err
			l.Warnw("store service unreachable, retrying",
				"attempt", attempt+1,
				"max_attempts", r.MaxRetries+1,
				"err", err,
			)
		}

		if attempt == r.MaxRetries {
			break
		}
		if err := sleepCtx(req.Context(), backoff(r.BaseDelay, r.MaxDelay, attempt)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func shouldRetryStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

func shouldRetryError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt && d < max; i++ {
		d *= 2
	}
	if d > max {
		d = max
	}
	j := 0.5 + rand.Float64()
	return time.Duration(float64(d) * j)
}

func retryAfterDelay(resp *http.Response) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0
	}
	sec, err := strconv.Atoi(ra)
	if err != nil || sec <= 0 {
		return 0
	}
	if sec > 60 {
		sec = 60
	}
	return time.Duration(sec) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
