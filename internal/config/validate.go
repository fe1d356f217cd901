package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration and joins every violation into one error.
// A nil result means the configuration is valid.
func Validate(config *Config) error {
	var errs []error

	if config.Order < 3 {
		errs = append(errs, ValidationError{
			Field:   "order",
			Message: fmt.Sprintf("must be at least 3, got %d", config.Order),
		})
	}

	switch strings.ToLower(config.Log.Format) {
	case LogFormatZap, LogFormatLogrus, LogFormatDiscard:
	default:
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("unknown format %q", config.Log.Format),
		})
	}

	switch strings.ToLower(config.Log.Level) {
	case "error", "warn", "info":
	default:
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level %q", config.Log.Level),
		})
	}

	if config.Script.Output == "" {
		errs = append(errs, ValidationError{Field: "script.output", Message: "must not be empty"})
	}

	switch strings.ToLower(config.Script.LineEnding) {
	case LineEndingCRLF, LineEndingLF:
	default:
		errs = append(errs, ValidationError{
			Field:   "script.lineEnding",
			Message: fmt.Sprintf("must be %q or %q, got %q", LineEndingCRLF, LineEndingLF, config.Script.LineEnding),
		})
	}

	if _, _, err := net.SplitHostPort(config.Server.Listen); err != nil {
		errs = append(errs, ValidationError{Field: "server.listen", Message: err.Error()})
	}

	if config.Server.MaxIndexes < 0 {
		errs = append(errs, ValidationError{Field: "server.maxIndexes", Message: "must not be negative"})
	}

	return errors.Join(errs...)
}
