package model

import "time"

// Error codes carried in the response envelope.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeBadRequest          = "BAD_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeVersionConflict     = "VERSION_CONFLICT"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

const (
	ValidationErrorMessage = "Los datos proporcionados no son válidos"
	BadRequestMessage      = "Los parámetros de la consulta no son válidos"
	InternalErrorMessage   = "Ha ocurrido un error interno del servidor"
)

// Common Response structure for all API calls
type Response struct {
	Success    bool        `json:"success" example:"true"`
	Data       any         `json:"data,omitempty"`
	Error      *APIError   `json:"error,omitempty"`
	Message    string      `json:"message,omitempty" example:"Schedule creado exitosamente"`
	Timestamp  string      `json:"timestamp,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// APIError is the error member of the envelope. Details is only set for
// field-level failures.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination derives page info from the requested page, the page size and
// the number of matching records.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Timestamp formats t the way every envelope reports it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// DefaultResponse is a generic wrapper for Huma responses
type DefaultResponse struct {
	Status int
	Body   Response
}
