// Package errors provides structured error types for the binding layer.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the host class and member involved plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseProperty, errors.KindInvalidValue).
//		Class("LineEdit").
//		Member("max_length").
//		Detail("value %q rejected", "abc").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownAttribute(errors.PhaseProperty, "Node", "positon")
//	err := errors.CallFailed("Node", "add_child", cause)
//
// Only KindUnknownAttribute and KindInvalidValue (plus call-site arity and
// construction errors) reach scripts. Lookup misses, build-order problems and
// trampoline failures are construction-time diagnostics that are logged.
//
// All errors implement the standard error interface and support errors.Is/As.
// KindOf and IsKind find the category through wrapping layers such as the
// interpreter's own evaluation errors.
package errors
