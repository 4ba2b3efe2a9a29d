package handler

import (
	"time"

	"github.com/google/uuid"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@medibill.app"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// ReapplyGuaranteeRequest represents the guarantee re-application request body.
type ReapplyGuaranteeRequest struct {
	MinHoursGuarantee float64 `json:"min_hours_guarantee" example:"8"`
}

// CreateGroupRequest represents the group creation request body.
type CreateGroupRequest struct {
	Name           string      `json:"name" binding:"required" example:"June 2025 - Acme"`
	MeasurementIDs []uuid.UUID `json:"measurement_ids" binding:"required"`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2025-06-15T10:30:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// NextNumberResponse represents the next proposal number response.
type NextNumberResponse struct {
	Number string `json:"number" example:"8/2025"`
}

// AttachmentKeyResponse represents a stored attachment key.
type AttachmentKeyResponse struct {
	Key string `json:"key" example:"billing/550e8400-e29b-41d4-a716-446655440000/abc-invoice.pdf"`
}

// AttachmentURLResponse represents a presigned attachment URL.
type AttachmentURLResponse struct {
	URL string `json:"url" example:"https://s3.amazonaws.com/medibill-attachments/...?X-Amz-Signature=..."`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
