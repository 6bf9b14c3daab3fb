package errors

import (
	"errors"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "htmltags.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "htmltags.yaml" {
			t.Errorf("expected context file=htmltags.yaml, got %v", file)
		}
		if got := err.Error(); got != "[config:fatal] invalid configuration" {
			t.Errorf("unexpected Error() %q", got)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := HostError("html generator missing").Build()
		wrapped := errors.Join(errors.New("attach"), err)

		if !HasCategory(wrapped, CategoryHost) {
			t.Error("expected wrapped error to have host category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified errors to map to internal")
		}
		if !err.IsFatal() {
			t.Error("expected host error to be fatal")
		}
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := AssetError("missing").Build()
		derived := base.WithContext("source", "a.js")

		if _, ok := base.Context().Get("source"); ok {
			t.Error("expected original context to be untouched")
		}
		if v, _ := derived.Context().GetString("source"); v != "a.js" {
			t.Errorf("expected source=a.js, got %q", v)
		}
		if !errors.Is(derived, base) {
			t.Error("expected derived error to match base by category and message")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Wrap keeps cause", func(t *testing.T) {
		originalErr := errors.New("no such file")
		err := WrapError(originalErr, CategoryAsset, "source file not found").
			Warning().
			WithContext("source", "vendor/a.js").
			Build()

		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal},
			{"HostError", HostError("test"), CategoryHost, SeverityFatal},
			{"AssetError", AssetError("test"), CategoryAsset, SeverityError},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	if v, _ := merged.GetString("key1"); v != "value1" {
		t.Errorf("expected key1=value1, got %s", v)
	}
	if v, _ := merged.GetString("key2"); v != "value2" {
		t.Errorf("expected key2=value2, got %s", v)
	}
	if v, _ := merged.GetString("shared"); v != "overridden" {
		t.Errorf("expected shared=overridden, got %s", v)
	}
	var nilCtx ErrorContext
	if _, ok := nilCtx.Get("x"); ok {
		t.Error("expected nil context lookup to miss")
	}
}
