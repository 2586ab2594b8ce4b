package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/svclab/itemsvc/internal/config"
	"github.com/svclab/itemsvc/internal/constants"
	"github.com/svclab/itemsvc/internal/errs"
	"github.com/svclab/itemsvc/internal/observability"
)

// newTestServer wires a full server against a miniredis instance
// without opening listeners.
func newTestServer(t *testing.T) (*Server, *miniredis.Miniredis, http.Handler) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cfg := config.DefaultConfig()
	cfg.Redis.URL = "redis://" + mr.Addr()

	srv, err := New(cfg, observability.NewNopLogger())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	t.Cleanup(func() { _ = srv.cache.Close() })

	return srv, mr, srv.buildHandler()
}

func TestServer_ItemFlowWithCorrelation(t *testing.T) {
	_, _, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set(constants.HeaderRequestID, "flow-test-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(constants.HeaderRequestID); got != "flow-test-1" {
		t.Errorf("request id header = %q, want flow-test-1", got)
	}
	if rec.Header().Get(constants.HeaderResponseTime) == "" {
		t.Error("expected X-Response-Time header")
	}
}

func TestServer_ErrorEnvelopeCarriesCorrelationID(t *testing.T) {
	_, _, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/999", nil)
	req.Header.Set(constants.HeaderRequestID, "missing-item-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}

	var env errs.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Code != errs.CodeNotFound {
		t.Errorf("code = %q", env.Code)
	}
	// Header and envelope must carry the same id.
	if env.CorrelationID != rec.Header().Get(constants.HeaderRequestID) {
		t.Errorf("envelope id %q != header id %q",
			env.CorrelationID, rec.Header().Get(constants.HeaderRequestID))
	}
	if env.CorrelationID != "missing-item-7" {
		t.Errorf("correlationId = %q, want missing-item-7", env.CorrelationID)
	}
}

func TestServer_LivenessFlipsOnShutdown(t *testing.T) {
	srv, _, handler := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constants.PathLiveness, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("liveness = %d, want 200", rec.Code)
	}

	srv.aggregator.SetShuttingDown(true)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constants.PathLiveness, nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("liveness during shutdown = %d, want 503", rec.Code)
	}
}

func TestServer_ReadinessReflectsCache(t *testing.T) {
	_, mr, handler := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constants.PathReadiness, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("readiness = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Overall    string `json:"overall"`
		Components []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Overall != "UP" {
		t.Errorf("overall = %q, want UP", body.Overall)
	}
	if len(body.Components) != 1 || body.Components[0].Name != "cache" {
		t.Fatalf("components = %+v", body.Components)
	}

	// Cache store failure drags readiness DOWN.
	mr.SetError("store unavailable")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constants.PathReadiness, nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness with broken cache = %d, want 503", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Overall != "DOWN" {
		t.Errorf("overall = %q, want DOWN", body.Overall)
	}
}

func TestServer_DetailedHealth(t *testing.T) {
	_, _, handler := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constants.PathHealth, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}

	var body struct {
		Overall string `json:"overall"`
		Version string `json:"version"`
		Uptime  string `json:"uptime"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Version == "" || body.Uptime == "" {
		t.Errorf("expected version and uptime, got %+v", body)
	}
}

func TestServer_Documentation(t *testing.T) {
	_, _, handler := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("root = %d", rec.Code)
	}

	var doc documentation
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Endpoints) == 0 {
		t.Error("expected endpoint listing")
	}
	if doc.Observability.Readiness != constants.PathReadiness {
		t.Errorf("readiness path = %q", doc.Observability.Readiness)
	}

	// The root pattern must not swallow unknown paths.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no/such/path", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path = %d, want 404", rec.Code)
	}
}

func TestServer_MetricsExposition(t *testing.T) {
	srv, _, handler := newTestServer(t)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/items/1", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	rec := httptest.NewRecorder()
	srv.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constants.PathMetrics, nil))

	body, _ := io.ReadAll(rec.Body)
	exposition := string(body)
	want := `http_requests_total{method="GET",route="/api/v1/items/{id}",status_class="2xx"} 3`
	if !strings.Contains(exposition, want) {
		t.Errorf("exposition missing %q", want)
	}
	// Raw paths must never appear as label values.
	if strings.Contains(exposition, `route="/api/v1/items/1"`) {
		t.Error("exposition contains a raw path label")
	}
}

func TestServer_PanicProducesEnvelopeAndMetric(t *testing.T) {
	srv, _, _ := newTestServer(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		panic("corrupt record")
	})
	handler := srv.applyMiddleware(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/3", nil)
	req.Header.Set(constants.HeaderRequestID, "panic-trace")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var env errs.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Code != errs.CodeInternal || env.CorrelationID != "panic-trace" {
		t.Errorf("envelope = %+v", env)
	}

	exp := httptest.NewRecorder()
	srv.metrics.Handler().ServeHTTP(exp, httptest.NewRequest(http.MethodGet, constants.PathMetrics, nil))
	want := `http_requests_total{method="GET",route="/api/v1/items/{id}",status_class="5xx"} 1`
	if !strings.Contains(exp.Body.String(), want) {
		t.Errorf("exposition missing %q", want)
	}
}
