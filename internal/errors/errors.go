package errors

import "errors"

var (
	ErrBaseURLRequired    = errors.New("BUILDCONSOLE_BASE_URL is required")
	ErrInvalidPagination  = errors.New("invalid pagination: page must be >= 0 and size must be > 0")
	ErrInvalidBuildID     = errors.New("invalid build id")
	ErrProfileNotFound    = errors.New("profile not found in config file")
	ErrUnexpectedResponse = errors.New("unexpected response payload")
)
