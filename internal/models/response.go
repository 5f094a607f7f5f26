package models

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response is the standard envelope the API wraps around every payload.
// Page, Size and Count are only present on paginated endpoints.
type Response[T any] struct {
	Status  string  `json:"status"`
	Data    T       `json:"data"`
	Message *string `json:"message,omitempty"`
	Page    *int    `json:"page,omitempty"`
	Size    *int    `json:"size,omitempty"`
	Count   *int    `json:"count,omitempty"`
}

// ErrorResponse is the body returned alongside non-success statuses
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
