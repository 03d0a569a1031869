package monitor

import "time"

// Status is the cached health snapshot served by the health endpoints.
type Status struct {
	PostgreSQL bool          `json:"postgresql"`
	Redis      bool          `json:"redis"`
	DBLatency  time.Duration `json:"db_latency_ns"`
	LastCheck  time.Time     `json:"last_check"`
}

// Healthy reports whether the primary store is reachable. Redis is a cache:
// it degrades the snapshot but does not fail readiness.
func (s Status) Healthy() bool {
	return s.PostgreSQL
}
