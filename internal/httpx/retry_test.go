package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptedTransport replays a fixed sequence of responses/errors, one
// per attempt.
type scriptedTransport struct {
	responses []*http.Response
	errors    []error
	calls     int
	mux       sync.Mutex
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.calls >= len(s.responses) {
		return nil, errors.New("script exhausted")
	}
	resp, err := s.responses[s.calls], s.errors[s.calls]
	s.calls++
	return resp, err
}

func scriptedClient(steps ...any) (*http.Client, *scriptedTransport) {
	tr := &scriptedTransport{}
	for _, step := range steps {
		switch v := step.(type) {
		case *http.Response:
			tr.responses = append(tr.responses, v)
			tr.errors = append(tr.errors, nil)
		case error:
			tr.responses = append(tr.responses, nil)
			tr.errors = append(tr.errors, v)
		}
	}
	return &http.Client{Transport: tr}, tr
}

func response(status int, body string, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     h,
	}
}

func getReq(ctx context.Context) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, "GET", "https://canvas.test/api/v1/courses/1/modules", nil)
}

func fastRetry(maxAttempts int) RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = maxAttempts
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func TestDoWithRetryFirstTry(t *testing.T) {
	client, tr := scriptedClient(response(200, `[{"id": 1}]`, nil))

	resp, body, err := DoWithRetry(context.Background(), client, getReq, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("DoWithRetry: %v", err)
	}
	if resp.StatusCode != 200 || string(body) != `[{"id": 1}]` {
		t.Errorf("Got status %d body %q", resp.StatusCode, body)
	}
	if tr.calls != 1 {
		t.Errorf("Expected 1 attempt, got %d", tr.calls)
	}
}

func TestDoWithRetryBuildError(t *testing.T) {
	client, _ := scriptedClient()
	wantErr := errors.New("bad request setup")

	_, _, err := DoWithRetry(context.Background(), client, func(ctx context.Context) (*http.Request, error) {
		return nil, wantErr
	}, DefaultRetryConfig())
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected build error back, got %v", err)
	}
}

func TestDoWithRetryNonRetryableTransportError(t *testing.T) {
	client, tr := scriptedClient(errors.New("certificate verify failed"))

	_, _, err := DoWithRetry(context.Background(), client, getReq, fastRetry(3))
	if err == nil || !strings.Contains(err.Error(), "certificate verify failed") {
		t.Errorf("Expected the transport error, got %v", err)
	}
	if tr.calls != 1 {
		t.Errorf("Non-retryable error should not be retried, got %d attempts", tr.calls)
	}
}

func TestDoWithRetryRateLimited(t *testing.T) {
	client, tr := scriptedClient(
		response(429, `{"errors": [{"message": "rate limited"}]}`, map[string]string{"Retry-After": "0"}),
		response(200, `[{"id": 2}]`, nil),
	)

	resp, body, err := DoWithRetry(context.Background(), client, getReq, fastRetry(3))
	if err != nil {
		t.Fatalf("Expected success after 429, got %v", err)
	}
	if resp.StatusCode != 200 || string(body) != `[{"id": 2}]` {
		t.Errorf("Got status %d body %q", resp.StatusCode, body)
	}
	if tr.calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", tr.calls)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestDoWithRetryFlakyConnection(t *testing.T) {
	client, tr := scriptedClient(
		timeoutErr{},
		response(200, `{}`, nil),
	)

	_, _, err := DoWithRetry(context.Background(), client, getReq, fastRetry(3))
	if err != nil {
		t.Fatalf("Expected success after network blip, got %v", err)
	}
	if tr.calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", tr.calls)
	}
}

func TestDoWithRetryExhaustsAttempts(t *testing.T) {
	client, tr := scriptedClient(
		response(503, `{"errors": [{"message": "maintenance"}]}`, nil),
		response(503, `{"errors": [{"message": "maintenance"}]}`, nil),
	)

	_, _, err := DoWithRetry(context.Background(), client, getReq, fastRetry(2))
	if err == nil {
		t.Fatal("Expected error after exhausting attempts")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != 503 {
		t.Errorf("StatusCode = %d", httpErr.StatusCode)
	}
	// The Canvas error payload must survive into the report.
	if !strings.Contains(string(httpErr.Body), "maintenance") {
		t.Errorf("Body = %q", httpErr.Body)
	}
	if tr.calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", tr.calls)
	}
}

func TestDoWithRetryNotFoundIsTerminal(t *testing.T) {
	client, tr := scriptedClient(response(404, `{"errors": [{"message": "The specified resource does not exist."}]}`, nil))

	_, _, err := DoWithRetry(context.Background(), client, getReq, fastRetry(3))
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 404 {
		t.Fatalf("Expected 404 HTTPError, got %v", err)
	}
	if tr.calls != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", tr.calls)
	}
}

func TestDoWithRetryZeroConfigGetsDefaults(t *testing.T) {
	client, _ := scriptedClient(response(200, `{}`, nil))

	if _, _, err := DoWithRetry(context.Background(), client, getReq, RetryConfig{}); err != nil {
		t.Errorf("Zero-value config should fall back to defaults: %v", err)
	}
}

func TestDoJSON(t *testing.T) {
	client, _ := scriptedClient(response(200, `{"id": 7, "name": "Week 1"}`, nil))

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if _, err := DoJSON(context.Background(), client, getReq, &out, DefaultRetryConfig()); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.ID != 7 || out.Name != "Week 1" {
		t.Errorf("Decoded %+v", out)
	}
}

func TestDoJSONNilOut(t *testing.T) {
	client, _ := scriptedClient(response(200, `{"id": 7}`, nil))

	if _, err := DoJSON(context.Background(), client, getReq, nil, DefaultRetryConfig()); err != nil {
		t.Errorf("nil out should skip decoding: %v", err)
	}
}

func TestDoJSONMalformedBody(t *testing.T) {
	client, _ := scriptedClient(response(200, `{"id": `, nil))

	var out struct{ ID int }
	_, err := DoJSON(context.Background(), client, getReq, &out, DefaultRetryConfig())
	if err == nil || !strings.Contains(err.Error(), "json parse error") {
		t.Errorf("Expected json parse error, got %v", err)
	}
}

func TestSleepBackoffCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleepBackoff(ctx, 1, time.Second, 2*time.Second, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSleepBackoffHonorsRetryAfter(t *testing.T) {
	start := time.Now()
	if err := sleepBackoff(context.Background(), 1, time.Millisecond, 50*time.Millisecond, 15*time.Millisecond); err != nil {
		t.Fatalf("sleepBackoff: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("Slept %v, want at least the Retry-After 15ms", elapsed)
	}
}
