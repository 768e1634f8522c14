package model

import (
	"time"

	"github.com/google/uuid"
)

// ApiLog is one row of the request audit trail
type ApiLog struct {
	ID         int64      `json:"id"`
	APIKey     *uuid.UUID `json:"api_key,omitempty"`
	IPAddress  string     `json:"ip_address"`
	Method     string     `json:"method"`
	Path       string     `json:"path"`
	StatusCode int        `json:"status_code"`
	ProcessMs  float64    `json:"process_ms"`
	CreatedAt  time.Time  `json:"created_at"`
}
