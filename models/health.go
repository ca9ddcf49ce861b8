package models

// SubsystemHealth is the state of one monitored server subsystem
// (for example "Engine Database" or "PAPI").
type SubsystemHealth struct {
	OK       bool     `json:"ok"`
	Messages []string `json:"messages,omitempty"`
}

// HealthResponse maps subsystem names to their health as reported by the
// engine status endpoint.
type HealthResponse map[string]SubsystemHealth

// IsHealthy returns true when every reported subsystem is ok.
func (h HealthResponse) IsHealthy() bool {
	for _, s := range h {
		if !s.OK {
			return false
		}
	}
	return true
}
