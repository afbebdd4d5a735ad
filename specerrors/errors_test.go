package specerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "vendor/swagger.yaml",
			Message: "invalid syntax",
			Cause:   cause,
		}
		if msg := err.Error(); msg != "parse error in vendor/swagger.yaml: invalid syntax: underlying error" {
			t.Errorf("unexpected error message: %s", msg)
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		if err.Error() != "parse error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		//nolint:errorlint // testing pointer identity
		if unwrapped := err.Unwrap(); unwrapped != cause {
			t.Error("Unwrap should return cause")
		}
	})

	t.Run("Is matches sentinel", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", &ParseError{Message: "bad"})
		if !errors.Is(wrapped, ErrParse) {
			t.Error("errors.Is should match ErrParse")
		}
		if errors.Is(wrapped, ErrValidation) {
			t.Error("errors.Is should not match ErrValidation")
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with path and field", func(t *testing.T) {
		err := &ValidationError{
			Path:    "paths./invoices.get",
			Field:   "responses",
			Message: "must declare at least one response",
		}
		want := "validation error at paths./invoices.get.responses: must declare at least one response"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches sentinel", func(t *testing.T) {
		if !errors.Is(&ValidationError{}, ErrValidation) {
			t.Error("errors.Is should match ErrValidation")
		}
	})

	t.Run("As extracts typed error", func(t *testing.T) {
		wrapped := fmt.Errorf("check failed: %w", &ValidationError{Field: "operationId"})
		var verr *ValidationError
		if !errors.As(wrapped, &verr) {
			t.Fatal("errors.As should extract *ValidationError")
		}
		if verr.Field != "operationId" {
			t.Errorf("unexpected field: %s", verr.Field)
		}
	})
}

func TestPatchError(t *testing.T) {
	t.Run("Error message with pass and path", func(t *testing.T) {
		err := &PatchError{
			Pass:    "merge-overrides",
			Path:    "overrides",
			Message: "cannot read directory",
		}
		want := "patch error in pass merge-overrides at overrides: cannot read directory"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches sentinel", func(t *testing.T) {
		if !errors.Is(&PatchError{}, ErrPatch) {
			t.Error("errors.Is should match ErrPatch")
		}
	})
}

func TestConversionError(t *testing.T) {
	err := &ConversionError{
		SourceVersion: "2.0",
		TargetVersion: "3.0.3",
		Message:       "unsupported construct",
	}
	if err.Error() != "conversion error (2.0 -> 3.0.3): unsupported construct" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrConversion) {
		t.Error("errors.Is should match ErrConversion")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "WithFilePath", Message: "path cannot be empty"}
	if err.Error() != "configuration error for WithFilePath: path cannot be empty" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("errors.Is should match ErrConfig")
	}
}

func TestReferenceError(t *testing.T) {
	err := &ReferenceError{Ref: "#/components/schemas/Missing", Message: "not found"}
	if err.Error() != "reference error: #/components/schemas/Missing: not found" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrReference) {
		t.Error("errors.Is should match ErrReference")
	}
}
