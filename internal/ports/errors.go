package ports

import "errors"

// Standard application-level errors.
// Adapters and the API layer should wrap or match these standard errors.
var (
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrConfigurationError = errors.New("invalid or missing configuration")
)
