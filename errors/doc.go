// Package errors provides structured error types for the embedding layer.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The embedded engine only reports coarse status, so two kinds
// carry most failures across the gateway:
//
//	KindOperationFailed - a boolean-status engine call returned failure
//	KindNullHandle      - an object-returning engine call returned null
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindOverflow).
//		Op("encode").
//		GoType("jsval.ObjectRef").
//		Detail("handle %#x exceeds payload width", h).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OperationFailed(errors.PhaseInstall, "define functions")
//	err := errors.NullHandle(errors.PhaseLifecycle, "new context")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
