package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLivenessHandler(t *testing.T) {
	agg := NewAggregator()
	handler := LivenessHandler(agg)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "UP" {
		t.Errorf(`body status = %q, want "UP"`, body["status"])
	}
}

func TestLivenessHandler_ShuttingDown(t *testing.T) {
	agg := NewAggregator()
	agg.SetShuttingDown(true)
	handler := LivenessHandler(agg)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestReadinessHandler_Up(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewProbeFunc("cache", func(ctx context.Context) Result {
		return Up(5 * time.Millisecond)
	}))
	handler := ReadinessHandler(agg)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Overall    string `json:"overall"`
		Components []struct {
			Name      string  `json:"name"`
			Status    string  `json:"status"`
			LatencyMs float64 `json:"latencyMs"`
		} `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Overall != "UP" {
		t.Errorf("overall = %q, want UP", body.Overall)
	}
	if len(body.Components) != 1 {
		t.Fatalf("got %d components, want 1", len(body.Components))
	}
	c := body.Components[0]
	if c.Name != "cache" || c.Status != "UP" {
		t.Errorf("component = %+v", c)
	}
	if c.LatencyMs < 5 {
		t.Errorf("latencyMs = %v, want >= 5", c.LatencyMs)
	}
}

func TestReadinessHandler_DownOnTimeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{
		ProbeTimeout:    50 * time.Millisecond,
		ReadinessMargin: 25 * time.Millisecond,
	})
	agg.Register(NewProbeFunc("cache", func(ctx context.Context) Result {
		<-ctx.Done()
		return Down(0, ctx.Err())
	}))
	handler := ReadinessHandler(agg)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var body struct {
		Overall    string `json:"overall"`
		Components []struct {
			Name      string  `json:"name"`
			Status    string  `json:"status"`
			LatencyMs float64 `json:"latencyMs"`
			Error     string  `json:"error"`
		} `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Overall != "DOWN" {
		t.Errorf("overall = %q, want DOWN", body.Overall)
	}
	c := body.Components[0]
	if c.Status != "DOWN" {
		t.Errorf("component status = %q, want DOWN", c.Status)
	}
	if c.Error == "" {
		t.Error("timeout component should carry an error")
	}
	if c.LatencyMs > 50 {
		t.Errorf("latencyMs = %v, want bounded by the 50ms deadline", c.LatencyMs)
	}
}

func TestReadinessHandler_DegradedStillServes(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewProbeFunc("cache", func(ctx context.Context) Result {
		return Degraded(time.Millisecond, "pool exhausted")
	}))
	handler := ReadinessHandler(agg)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for DEGRADED", rec.Code)
	}
}

func TestDetailedHandler(t *testing.T) {
	agg := NewAggregator()
	agg.Register(NewProbeFunc("cache", func(ctx context.Context) Result {
		return Down(time.Millisecond, errors.New("connection refused"))
	}))
	handler := DetailedHandler(agg, "1.2.3", time.Now().Add(-90*time.Second))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	var body struct {
		Overall string `json:"overall"`
		Version string `json:"version"`
		Uptime  string `json:"uptime"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Version != "1.2.3" {
		t.Errorf("version = %q, want 1.2.3", body.Version)
	}
	if body.Uptime == "" {
		t.Error("uptime missing from detailed response")
	}
}
