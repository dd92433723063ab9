package client

import "github.com/drawmyfeelings/journey/internal/wire"

// HealthStatus is the decoded body of the health path.
type HealthStatus struct {
	Status string
	Checks map[string]any
}

// Healthy reports whether every dependency of the service is up.
func (h HealthStatus) Healthy() bool { return h.Status == wire.StatusHealthy }
