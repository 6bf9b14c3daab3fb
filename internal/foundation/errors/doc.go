// Package errors provides the classified error primitives used across htmltags.
//
// Key features:
//   - ErrorCategory: broad classification (config, validation, host, asset, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity, and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.WrapError(statErr, errors.CategoryAsset, "source file not found").
//		WithContext("source", tag.SourcePath).
//		Build()
package errors
