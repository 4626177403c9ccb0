package api

import (
	"time"

	"github.com/goran-ethernal/BlockPipe/pkg/listener"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Network   string    `json:"network"`
	Paused    bool      `json:"paused"`
}

// StatusResponse wraps the listener state.
type StatusResponse struct {
	listener.Status
	Network string `json:"network"`
}

// ActionResponse acknowledges an administrative action.
type ActionResponse struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}
