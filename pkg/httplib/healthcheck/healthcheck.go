package healthcheck

import (
	"encoding/json"
	"net/http"
)

// Path is the path answered by the health check.
const Path = "/health"

// Status is the body returned by the health check.
type Status struct {
	Status  string   `json:"status"`
	Tickers []string `json:"tickers"`
}

// HealthCheck answers GET /health with the tickers the process is serving.
type HealthCheck struct {
	// Tickers lists the active order books. Nil reports none.
	Tickers func() []string
}

// Handler is used to control the flow of GET /health endpoint
func (hc HealthCheck) Handler(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if IsHealthCheckRequest(r) {
			hc.ServeHTTP(w, r)

			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// ServeHTTP serve http request for health check
func (hc HealthCheck) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	status := Status{Status: "ok", Tickers: []string{}}
	if hc.Tickers != nil {
		status.Tickers = hc.Tickers()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(status)
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == Path
}
