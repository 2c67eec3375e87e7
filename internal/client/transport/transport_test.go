package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildValidates(t *testing.T) {
	_, err := Build(Options{})
	assert.Error(t, err)

	_, err = Build(Options{HTTPClient: http.DefaultClient, Retries: -1})
	assert.Error(t, err)

	tr, err := Build(Options{HTTPClient: http.DefaultClient})
	require.NoError(t, err)
	assert.IsType(t, &HTTPTransport{}, tr)
}

func TestNoRetriesByDefault(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr, err := Build(Options{HTTPClient: srv.Client()})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := tr.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRetryRecoversLookup(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"1":{"id":1,"storeName":"Milk Bar"}}`)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	tr, err := Build(Options{
		HTTPClient: srv.Client(),
		Retries:    2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		Logger:     zap.New(core).Sugar(),
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/stores?store=milk", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	resp, err := tr.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), hits.Load())

	entries := logs.All()
	require.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "/stores", fields["path"])
	assert.EqualValues(t, http.StatusServiceUnavailable, fields["status"])
}

func TestItemSubmissionSentOnce(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tr, err := Build(Options{
		HTTPClient: srv.Client(),
		Retries:    3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/items", bytes.NewReader([]byte(`{"itemName":"tea"}`)))
	resp, err := tr.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, []string{`{"itemName":"tea"}`}, bodies)
}

func TestRetryReturnsLastResponse(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":"slow down"}`)
	}))
	defer srv.Close()

	tr, err := Build(Options{HTTPClient: srv.Client(), Retries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := tr.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"slow down"}`, string(b))
	assert.Equal(t, int32(2), hits.Load())
}

type slowDoer struct {
	inFlight, peak atomic.Int32
}

func (d *slowDoer) Do(req *http.Request) (*http.Response, error) {
	n := d.inFlight.Add(1)
	for {
		p := d.peak.Load()
		if n <= p || d.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	d.inFlight.Add(-1)
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
}

func TestConcurrencyGate(t *testing.T) {
	base := &slowDoer{}
	tr := &ConcurrencyTransport{Base: base, sem: newSemaphore(2)}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodGet, "http://example.invalid", nil)
			_, err := tr.Do(req)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, base.peak.Load(), int32(2))
}

func TestConcurrencyGateHonoursContext(t *testing.T) {
	tr := &ConcurrencyTransport{Base: &slowDoer{}, sem: newSemaphore(1)}
	tr.sem.ch <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.invalid", nil)
	_, err := tr.Do(req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Zero(t, retryAfterDelay(resp))
	resp.Header.Set("Retry-After", "2")
	assert.Equal(t, 2*time.Second, retryAfterDelay(resp))
	resp.Header.Set("Retry-After", "600")
	assert.Equal(t, 60*time.Second, retryAfterDelay(resp))
	resp.Header.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Zero(t, retryAfterDelay(resp))
}

func TestBackoffBounded(t *testing.T) {
	for attempt := 0; attempt < 40; attempt++ {
		d := backoff(100*time.Millisecond, time.Second, attempt)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
		assert.Greater(t, d, time.Duration(0))
	}
}
