package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrUnavailable      = fmt.Errorf("catalog service unavailable")
	ErrTimeout          = fmt.Errorf("operation timed out")
	ErrNotFound         = fmt.Errorf("not found")
	ErrInvalidID        = fmt.Errorf("invalid content id")
	ErrNoPlayableStream = fmt.Errorf("no playable stream")
	ErrInvalidAudioURL  = fmt.Errorf("invalid audio url")

	ErrAPIRequest = fmt.Errorf("api request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
