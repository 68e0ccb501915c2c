package helpers

import (
	"fmt"
	"time"

	"github.com/lakowske/marketbridge/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type BridgeError struct {
	Message string
	Cause   error
}

func (e *BridgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// Helper to define distinct error types for type assertions if needed
type ConfigurationError struct{ BridgeError }
type ValidationError struct{ BridgeError }
type BrokerError struct{ BridgeError }
type ResolutionError struct{ BridgeError }

// -----------------------------------------------------------------------------

// NewValidationError builds a client-input failure with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{BridgeError{Message: fmt.Sprintf(format, args...)}}
}

// NewBrokerError wraps a broker connection failure.
func NewBrokerError(cause error, format string, args ...interface{}) *BrokerError {
	return &BrokerError{BridgeError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}

// NewResolutionError builds a front-month resolution failure.
func NewResolutionError(format string, args ...interface{}) *ResolutionError {
	return &ResolutionError{BridgeError{Message: fmt.Sprintf(format, args...)}}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts to execute the operation up to maxRetries times with exponential backoff.
func RetryWithBackoff(l *logger.Logger, operation string, maxRetries int, baseDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		l.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries, operation, err, delay)
		time.Sleep(delay)
	}

	return &BridgeError{Message: fmt.Sprintf("%s failed after %d attempts", operation, maxRetries), Cause: lastErr}
}
