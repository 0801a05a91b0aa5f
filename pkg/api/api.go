// Package api defines the contracts for API requests and responses.
// It decouples the API structure from the application read models.
package api

// UpdateStatusRequest is the expected body for a PUT .../status request.
type UpdateStatusRequest struct {
	DeviceOperation string `json:"deviceOperation"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Type      string `json:"type,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
