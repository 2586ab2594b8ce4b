package server

import (
	"net/http"

	"github.com/svclab/itemsvc/internal/constants"
	"github.com/svclab/itemsvc/internal/httputil"
)

type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type documentation struct {
	Message       string      `json:"message"`
	Version       string      `json:"version"`
	Environment   string      `json:"environment"`
	Endpoints     []routeInfo `json:"endpoints"`
	Observability struct {
		Health    string `json:"health"`
		Liveness  string `json:"liveness"`
		Readiness string `json:"readiness"`
		Metrics   string `json:"metrics"`
	} `json:"observability"`
}

// serveDocumentation answers the root path with a machine-readable
// endpoint listing.
func (s *Server) serveDocumentation(w http.ResponseWriter, r *http.Request) {
	doc := documentation{
		Message:     s.config.App.Name + " API",
		Version:     s.config.App.Version,
		Environment: s.config.App.Environment,
		Endpoints: []routeInfo{
			{Method: http.MethodGet, Path: "/api/v1/items"},
			{Method: http.MethodPost, Path: "/api/v1/items"},
			{Method: http.MethodGet, Path: "/api/v1/items/{id}"},
			{Method: http.MethodPut, Path: "/api/v1/items/{id}"},
			{Method: http.MethodDelete, Path: "/api/v1/items/{id}"},
		},
	}
	doc.Observability.Health = constants.PathHealth
	doc.Observability.Liveness = constants.PathLiveness
	doc.Observability.Readiness = constants.PathReadiness
	doc.Observability.Metrics = constants.PathMetrics

	httputil.WriteJSON(w, http.StatusOK, doc)
}
