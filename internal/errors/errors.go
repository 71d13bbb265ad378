// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrWindowClosed     = errors.New("premarket window is closed")
	ErrSymbolIneligible = errors.New("symbol not eligible for screening")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrScanInProgress   = errors.New("a scan is already in progress")
)

// ProviderError represents a failure talking to the market-data provider.
// Op is "universe" for symbol-list failures, otherwise the per-symbol
// operation that failed ("quote", "profile", "metric", ...).
type ProviderError struct {
	Op     string
	Symbol string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("provider error [%s] %s: %v", e.Op, e.Symbol, e.Err)
	}
	return fmt.Sprintf("provider error [%s]: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(op, symbol string, err error) *ProviderError {
	return &ProviderError{
		Op:     op,
		Symbol: symbol,
		Err:    err,
	}
}

// IsUniverseError reports whether err is a provider failure for the whole
// symbol universe, which is fatal to the current tick.
func IsUniverseError(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Op == "universe"
	}
	return false
}

// NotifyError represents a delivery failure on a notification channel.
// Callers log it and move on; it never propagates out of a scan.
type NotifyError struct {
	Channel string
	Err     error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify error [%s]: %v", e.Channel, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// NewNotifyError creates a new NotifyError.
func NewNotifyError(channel string, err error) *NotifyError {
	return &NotifyError{
		Channel: channel,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
