package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resumefit/internal/analyses"
	"resumefit/internal/services/health"
	"resumefit/internal/shared/config"
	"resumefit/internal/shared/server/middleware"
)

func testRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := &analyses.Service{Repo: analyses.NewMemoryRepo()}
	return NewRouter(RouterDeps{
		Config:          cfg,
		AnalysisHandler: analyses.NewHandler(svc),
		Health:          health.NewService(nil),
	})
}

func TestRouterHealthAndMetrics(t *testing.T) {
	r := testRouter(config.Config{Env: "dev"})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var status health.Status
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil || !status.OK || status.Storage != "memory" {
		t.Fatalf("unexpected health body %s (%v)", resp.Body.String(), err)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "analysis_completed_total") {
		t.Fatalf("unexpected metrics response %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterSessionEndpoint(t *testing.T) {
	r := testRouter(config.Config{Env: "dev"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set(middleware.SessionHeader, "abc")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["sessionId"] != "abc" {
		t.Fatalf("expected sessionId abc, got %v", body)
	}
}

func TestRouterRateLimitsAnalyses(t *testing.T) {
	r := testRouter(config.Config{Env: "dev", RateLimitRPS: 0.001, RateLimitBurst: 1})
	body := `{"resumeText":"Go developer","jobDescription":"Go engineer"}`

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.SessionHeader, "limited")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}
	if resp := send(); resp.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d: %s", resp.Code, resp.Body.String())
	}
	resp := send()
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestRouterRateLimitDisabled(t *testing.T) {
	r := testRouter(config.Config{Env: "dev"})
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.Code)
		}
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
