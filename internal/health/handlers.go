package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// componentResponse is the wire format of one probe result.
type componentResponse struct {
	Name      string  `json:"name"`
	Status    Status  `json:"status"`
	LatencyMs float64 `json:"latencyMs"`
	Error     string  `json:"error,omitempty"`
}

// verdictResponse is the wire format of an aggregated verdict.
type verdictResponse struct {
	Overall     Status              `json:"overall"`
	Components  []componentResponse `json:"components"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

// detailedResponse extends the verdict with service identity, served on
// the human-facing health endpoint.
type detailedResponse struct {
	verdictResponse
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func toVerdictResponse(v Verdict) verdictResponse {
	components := make([]componentResponse, len(v.Components))
	for i, c := range v.Components {
		components[i] = componentResponse{
			Name:      c.Name,
			Status:    c.Status,
			LatencyMs: float64(c.Latency.Microseconds()) / 1000,
			Error:     c.Err,
		}
	}
	return verdictResponse{
		Overall:     v.Overall,
		Components:  components,
		GeneratedAt: v.GeneratedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// LivenessHandler answers whether the process can serve requests at
// all. 200 unless the shutdown flag is set.
func LivenessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := agg.Liveness()
		code := http.StatusOK
		if status != StatusUp {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]Status{"status": status})
	}
}

// ReadinessHandler runs all registered probes and answers whether the
// service can currently take traffic. 503 only when overall is DOWN;
// DEGRADED still serves.
func ReadinessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		verdict := agg.Readiness(r.Context())
		code := http.StatusOK
		if verdict.Overall == StatusDown {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, toVerdictResponse(verdict))
	}
}

// DetailedHandler serves the full verdict plus version and uptime.
func DetailedHandler(agg *Aggregator, version string, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		verdict := agg.Readiness(r.Context())
		code := http.StatusOK
		if verdict.Overall == StatusDown {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, detailedResponse{
			verdictResponse: toVerdictResponse(verdict),
			Version:         version,
			Uptime:          time.Since(startedAt).Truncate(time.Second).String(),
		})
	}
}
