package models

// Health is the body of every /api/ops endpoint. Liveness reports the
// build; readiness and status add one CheckResult per backing store.
type Health struct {
	Status    HealthStatus  `json:"status"`
	Time      Timestamp     `json:"time"`
	Version   string        `json:"version,omitempty"`
	BuildTime string        `json:"buildTime,omitempty"`
	Checks    []CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of pinging one dependency, e.g. the push-token store.
type CheckResult struct {
	Name      string       `json:"name"`
	Status    HealthStatus `json:"status"`
	LatencyMS int64        `json:"latencyMs"`
	Error     string       `json:"error,omitempty"`
}

// Failed returns the checks that did not answer OK.
func (h Health) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range h.Checks {
		if c.Status != HealthStatusOK {
			out = append(out, c)
		}
	}
	return out
}
