package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/metrics"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/provider"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/scanner"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type stubScanner struct {
	result *models.AnalysisResult
	cached bool
	err    error
	panics bool
}

func (s *stubScanner) Scan(ctx context.Context, address string) (*models.AnalysisResult, bool, error) {
	if s.panics {
		panic("boom")
	}
	return s.result, s.cached, s.err
}

type stubBreakers map[string]string

func (b stubBreakers) BreakerStates() map[string]string { return b }

type failingCache struct{ store.ResultCache }

func (failingCache) Ping(context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T, sc Scanner, limit int) (*Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	cache, err := store.NewMemoryCache(10, time.Minute)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}
	srv := New(Config{Addr: "127.0.0.1:0"}, Deps{
		Scanner:  sc,
		Limiter:  store.NewRateLimiter(limit, time.Minute),
		Cache:    cache,
		Gatherer: reg,
		Metrics:  metrics.New(reg),
		Log:      zap.NewNop().Sugar(),
	})
	return srv, reg
}

func doScan(t *testing.T, h http.Handler, body string, headers map[string]string) (*httptest.ResponseRecorder, models.ScanResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp models.ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestHandleScan_Validation(t *testing.T) {
	srv, _ := newTestServer(t, &stubScanner{result: &models.AnalysisResult{}}, 100)
	h := srv.Handler()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "malformed json", body: `{"mintAddress":`, wantErr: errInvalidBody},
		{name: "array body", body: `[]`, wantErr: errInvalidBody},
		{name: "missing field", body: `{}`, wantErr: errMissingAddress},
		{name: "empty string", body: `{"mintAddress": ""}`, wantErr: errMissingAddress},
		{name: "null", body: `{"mintAddress": null}`, wantErr: errMissingAddress},
		{name: "number", body: `{"mintAddress": 12345}`, wantErr: errMissingAddress},
		{name: "too short", body: `{"mintAddress": "abc"}`, wantErr: errInvalidAddress},
		{name: "too long", body: `{"mintAddress": "` + strings.Repeat("1", 45) + `"}`, wantErr: errInvalidAddress},
		{name: "not base58", body: `{"mintAddress": "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl"}`, wantErr: errInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doScan(t, h, tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if resp.Success || resp.Error != tt.wantErr {
				t.Errorf("response = %+v, want error %q", resp, tt.wantErr)
			}
			if resp.Cached != nil || resp.Data != nil {
				t.Error("error response carries data or cached")
			}
		})
	}
}

func TestHandleScan_Success(t *testing.T) {
	svc := scanner.NewService(provider.NewMockProvider(0, 1), mustCache(t), nil, zap.NewNop().Sugar())
	srv, _ := newTestServer(t, svc, 100)
	h := srv.Handler()
	body := `{"mintAddress": "` + provider.USDCMint + `"}`

	rec, resp := doScan(t, h, body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !resp.Success || resp.Cached == nil || *resp.Cached {
		t.Errorf("first response success=%v cached=%v", resp.Success, resp.Cached)
	}
	if resp.Data.Verdict != models.VerdictBased {
		t.Errorf("Verdict = %s", resp.Data.Verdict)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "99" {
		t.Errorf("X-RateLimit-Remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
	}

	_, resp = doScan(t, h, body, nil)
	if resp.Cached == nil || !*resp.Cached {
		t.Error("second response not marked cached")
	}
}

func mustCache(t *testing.T) store.ResultCache {
	t.Helper()
	cache, err := store.NewMemoryCache(10, time.Minute)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}
	return cache
}

func TestHandleScan_ScannerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantErr    string
	}{
		{name: "not found", err: provider.ErrTokenNotFound, wantStatus: http.StatusInternalServerError, wantErr: errFetchFailed},
		{name: "upstream down", err: errors.New("dial tcp: refused"), wantStatus: http.StatusInternalServerError, wantErr: errFetchFailed},
		{name: "invalid from provider", err: provider.ErrInvalidAddress, wantStatus: http.StatusBadRequest, wantErr: errInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, &stubScanner{err: tt.err}, 100)
			rec, resp := doScan(t, srv.Handler(), `{"mintAddress": "`+provider.BONKMint+`"}`, nil)
			if rec.Code != tt.wantStatus || resp.Error != tt.wantErr {
				t.Errorf("got %d %q, want %d %q", rec.Code, resp.Error, tt.wantStatus, tt.wantErr)
			}
		})
	}
}

func TestHandleScan_Panic(t *testing.T) {
	srv, _ := newTestServer(t, &stubScanner{panics: true}, 100)
	rec, resp := doScan(t, srv.Handler(), `{"mintAddress": "`+provider.BONKMint+`"}`, nil)

	if rec.Code != http.StatusInternalServerError || resp.Error != errInternal {
		t.Errorf("got %d %q, want 500 %q", rec.Code, resp.Error, errInternal)
	}
}

func TestHandleScan_RateLimit(t *testing.T) {
	srv, _ := newTestServer(t, &stubScanner{result: &models.AnalysisResult{}}, 2)
	h := srv.Handler()
	body := `{"mintAddress": "` + provider.BONKMint + `"}`
	client := map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}

	for i := 0; i < 2; i++ {
		if rec, _ := doScan(t, h, body, client); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, rec.Code)
		}
	}

	rec, resp := doScan(t, h, body, client)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", rec.Header().Get("Retry-After"))
	}
	if resp.Error != "Rate limit exceeded. Try again in 60 seconds." {
		t.Errorf("Error = %q", resp.Error)
	}

	// same first hop, different proxy chain
	if rec, _ := doScan(t, h, body, map[string]string{"X-Forwarded-For": "203.0.113.7"}); rec.Code != http.StatusTooManyRequests {
		t.Errorf("same client status = %d, want 429", rec.Code)
	}
	if rec, _ := doScan(t, h, body, map[string]string{"X-Real-IP": "198.51.100.1"}); rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}
}

func TestHandleScan_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, &stubScanner{}, 1)
	req := httptest.NewRequest(http.MethodGet, "/api/scan", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	var resp models.ScanResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Success || resp.Error != errMethodNotAllowed {
		t.Errorf("response = %+v", resp)
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": " 1.1.1.1 , 2.2.2.2"}, want: "1.1.1.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "3.3.3.3"}, want: "3.3.3.3"},
		{name: "forwarded wins", headers: map[string]string{"X-Forwarded-For": "4.4.4.4", "X-Real-IP": "3.3.3.3"}, want: "4.4.4.4"},
		{name: "none", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/scan", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientKey(req); got != tt.want {
				t.Errorf("clientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubScanner{}, 1)
		srv.breakers = stubBreakers{"dexscreener": "closed"}

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		var resp healthResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if rec.Code != http.StatusOK || resp.Status != "ok" {
			t.Errorf("health = %d %+v", rec.Code, resp)
		}
		if resp.Checks["cache"] != "ok" || resp.Checks["breaker:dexscreener"] != "closed" {
			t.Errorf("checks = %v", resp.Checks)
		}
	})

	t.Run("cache down", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubScanner{}, 1)
		srv.cache = failingCache{}

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "degraded") {
			t.Errorf("health = %d %s", rec.Code, rec.Body.String())
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubScanner{result: &models.AnalysisResult{}}, 10)
	h := srv.Handler()
	doScan(t, h, `{"mintAddress": "`+provider.BONKMint+`"}`, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `degenscan_scan_requests_total{outcome="scanned"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", rec.Body.String())
	}
}

func TestRun_Shutdown(t *testing.T) {
	srv, _ := newTestServer(t, &stubScanner{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
