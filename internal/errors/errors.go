package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMissingBackendClient = errors.New("ssm client is required")
	ErrMissingCommandID     = errors.New("command id is required")
)

// ConfigurationError reports a required environment variable that was not set.
// No request is built or sent when this error is returned.
type ConfigurationError struct {
	Variable string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration: %s is required", e.Variable)
	}
	return fmt.Sprintf("configuration: %s is required: %s", e.Variable, e.Reason)
}

// DispatchError wraps any failure after configuration was validated, including
// failures returned by the SendCommand call itself.
type DispatchError struct {
	Cause error
	// Code holds the AWS API error code when the cause is an API error
	Code string
}

func (e *DispatchError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("dispatch failed (%s): %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("dispatch failed: %v", e.Cause)
}

func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsDispatchError reports whether err is, or wraps, a DispatchError.
func IsDispatchError(err error) bool {
	var target *DispatchError
	return errors.As(err, &target)
}
