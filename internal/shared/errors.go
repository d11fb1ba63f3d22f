package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog and transfer errors
	ErrNetwork            = fmt.Errorf("catalog request failed")
	ErrNotFound           = fmt.Errorf("no audio resource")
	ErrTransfer           = fmt.Errorf("transfer failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// User interaction errors
	ErrUserCancelled = fmt.Errorf("cancelled by user")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
