package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "ssh.port").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the format of every configured value and returns a
// ValidationError if any rule fails. Absent values are not errors here;
// Require checks presence for a specific tool.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validatePort("ssh.port", cfg.SSH.Port)...)
	errs = append(errs, validateDuration("ssh.timeout", cfg.SSH.Timeout)...)
	errs = append(errs, validatePort("ftp.port", cfg.FTP.Port)...)
	errs = append(errs, validateDuration("ftp.timeout", cfg.FTP.Timeout)...)
	errs = append(errs, validateGit(&cfg.Git)...)
	errs = append(errs, validateDuration("deploy.status_delay", cfg.Deploy.StatusDelay)...)
	errs = append(errs, validateTracker(&cfg.Tracker)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validatePort(field string, port int) []FieldError {
	if port < 1 || port > 65535 {
		return []FieldError{{Field: field, Message: fmt.Sprintf("must be between 1 and 65535, got %d", port)}}
	}
	return nil
}

func validateDuration(field string, d time.Duration) []FieldError {
	if d < 0 {
		return []FieldError{{Field: field, Message: "must be a non-negative duration"}}
	}
	return nil
}

func validateGit(cfg *GitConfig) []FieldError {
	var errs []FieldError

	if cfg.MainBranch == cfg.StableBranch {
		errs = append(errs, FieldError{
			Field:   "git.stable_branch",
			Message: fmt.Sprintf("must differ from git.main_branch (%q)", cfg.MainBranch),
		})
	}

	switch cfg.Auth.Type {
	case "none", "token", "ssh":
	default:
		errs = append(errs, FieldError{
			Field:   "git.auth.type",
			Message: fmt.Sprintf("must be one of none, token, ssh, got %q", cfg.Auth.Type),
		})
	}

	return errs
}

func validateTracker(cfg *TrackerConfig) []FieldError {
	var errs []FieldError

	if cfg.URL != "" {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			errs = append(errs, FieldError{Field: "tracker.url", Message: fmt.Sprintf("invalid URL: %v", err)})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, FieldError{Field: "tracker.url", Message: "scheme must be http or https"})
		}
	}

	errs = append(errs, validateDuration("tracker.timeout", cfg.Timeout)...)
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error, got %q", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be text or json, got %q", cfg.Logging.Format),
		})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never":
	case "ratio":
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: fmt.Sprintf("must be between 0.0 and 1.0, got %g", cfg.Tracing.SampleRatio),
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("must be one of always, never, ratio, got %q", cfg.Tracing.Sampler),
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "is required when tracing is enabled",
		})
	}

	return errs
}
