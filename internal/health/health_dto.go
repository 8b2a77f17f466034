package health

type Check struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

type ReadyResponse struct {
	Status string           `json:"status"`
	Checks map[string]Check `json:"checks"`
}
