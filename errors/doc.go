// Package errors provides structured error types for the textconv library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the encoding involved, a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTranscode, errors.KindMalformed).
//		Encoding("windows-1252").
//		Detail("byte %#x undefined", 0x81).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseScan, 10, 5)
//	err := errors.AllocationFailed(errors.PhaseConvert, 1024, 2)
//
// Truncation by a bounded conversion is never an error. All errors implement the
// standard error interface and support errors.Is/As; IsKind matches across phases.
package errors
