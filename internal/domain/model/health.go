package model

// Health field values.
const (
	StatusOK             = "OK"
	StatusDegraded       = "DEGRADED"
	DatabaseConnected    = "Connected"
	DatabaseDisconnected = "Disconnected"
)

// Health reports service liveness in the shape served by /health.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthFor maps storage connectivity onto the health wire shape.
func HealthFor(connected bool) Health {
	if connected {
		return Health{Status: StatusOK, Database: DatabaseConnected}
	}
	return Health{Status: StatusDegraded, Database: DatabaseDisconnected}
}
