package validator

import (
	"fmt"

	"github.com/specmend/specmend/parser"
)

// Option is a function that configures a validation operation
type Option func(*validateConfig) error

// validateConfig holds configuration for a validation operation
type validateConfig struct {
	filePath        *string
	parsed          *parser.ParseResult
	includeWarnings bool
	logger          parser.Logger
}

// WithFilePath specifies the file path of the specification to validate
func WithFilePath(path string) Option {
	return func(cfg *validateConfig) error {
		if path == "" {
			return fmt.Errorf("file path cannot be empty")
		}
		cfg.filePath = &path
		return nil
	}
}

// WithParsed specifies an already-parsed specification to validate
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *validateConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithIncludeWarnings controls whether warnings are collected
func WithIncludeWarnings(include bool) Option {
	return func(cfg *validateConfig) error {
		cfg.includeWarnings = include
		return nil
	}
}

// WithLogger sets the structured logger for the validation
func WithLogger(logger parser.Logger) Option {
	return func(cfg *validateConfig) error {
		cfg.logger = logger
		return nil
	}
}

// ValidateWithOptions validates a specification using functional options.
//
// Example:
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithFilePath("openapi.yaml"),
//	)
func ValidateWithOptions(opts ...Option) (*ValidationResult, error) {
	cfg := &validateConfig{includeWarnings: true}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("validator: invalid options: %w", err)
		}
	}

	sources := 0
	if cfg.filePath != nil {
		sources++
	}
	if cfg.parsed != nil {
		sources++
	}
	if sources == 0 {
		return nil, fmt.Errorf("validator: no input source specified: use WithFilePath or WithParsed")
	}
	if sources > 1 {
		return nil, fmt.Errorf("validator: multiple input sources specified: use only one of WithFilePath or WithParsed")
	}

	v := New()
	v.IncludeWarnings = cfg.includeWarnings
	v.Logger = cfg.logger
	if cfg.parsed != nil {
		return v.ValidateParsed(*cfg.parsed)
	}
	return v.Validate(*cfg.filePath)
}
