package options

import "fmt"

// ErrorKind names a class of option validation failure.
type ErrorKind string

const (
	ErrMalformedType     ErrorKind = "malformed_type"
	ErrMissingField      ErrorKind = "missing_field"
	ErrMutuallyExclusive ErrorKind = "mutually_exclusive"
	ErrUnresolvableKind  ErrorKind = "unresolvable_kind"
	ErrEmptyGlob         ErrorKind = "empty_glob"
	ErrInvalidExternal   ErrorKind = "invalid_external"
)

// ValidationError describes the first option violation found. Field is the
// full dotted path of the offending option (for example
// "htmltags.options.tags[2].attributes") and Value the rejected input.
type ValidationError struct {
	Kind    ErrorKind
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches another *ValidationError of the same kind so callers can write
// errors.Is(err, &options.ValidationError{Kind: options.ErrEmptyGlob}).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, field string, value any, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

func malformed(field string, value any, want string) *ValidationError {
	return newError(ErrMalformedType, field, value, "%s should be %s (got %s)", field, want, describe(value))
}

// describe renders a rejected value for error messages.
func describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	case PathTransform, func(string, string) string:
		return "function"
	case map[string]any, map[string]string:
		return fmt.Sprintf("object %v", val)
	case []any, []string:
		return fmt.Sprintf("array %v", val)
	default:
		return fmt.Sprintf("%T %v", v, v)
	}
}
