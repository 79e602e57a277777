// Package errors provides error handling for tsbindgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for users
//   - Assertion failures for pipeline invariants
//
// Usage:
//
//	// Wrap with context
//	if err := loader.LoadFile(path); err != nil {
//	    return errors.Wrapf(err, "failed to load %s", path)
//	}
//
//	// A shape pass left a Placeholder behind: this is a bug, not bad input
//	return errors.NewInvariantf("placeholder %q survived shaping", name)
//
// Bad input never surfaces as an error from the shaping passes. It is
// recorded as a diagnostic instead, see package diag.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// Sentinel errors. Wrap these with errors.Wrap() to add context while
// preserving the type for errors.Is().
var (
	// ErrInvariantViolation marks a pipeline-internal bug (a shape pass broke
	// an invariant). The build must stop immediately.
	ErrInvariantViolation = New("pipeline invariant violated")

	// ErrMissingService indicates a required shared service (renamer,
	// diagnostics collector) was not supplied to the pipeline
	ErrMissingService = New("missing required service")

	// ErrInvalidPolicy indicates the generation policy failed validation
	ErrInvalidPolicy = New("invalid generation policy")

	// ErrNotFound indicates the requested file or symbol does not exist
	ErrNotFound = New("not found")

	// ErrInvalidInput indicates a malformed graph document or contract file
	ErrInvalidInput = New("invalid input")

	// ErrBuildFailed indicates the build emitted diagnostics listed in
	// Diagnostics.FailOn
	ErrBuildFailed = New("build failed")
)

// NewInvariantf creates an invariant-violation error with a formatted message.
func NewInvariantf(format string, args ...interface{}) error {
	return Wrap(ErrInvariantViolation, Newf(format, args...).Error())
}

// IsInvariantViolation reports whether err is or wraps ErrInvariantViolation
func IsInvariantViolation(err error) bool {
	return err != nil && Is(err, ErrInvariantViolation)
}

// NewInvalidInputf creates an invalid-input error with a formatted message
func NewInvalidInputf(format string, args ...interface{}) error {
	return Wrap(ErrInvalidInput, Newf(format, args...).Error())
}

// IsInvalidInputError checks if an error is or wraps ErrInvalidInput
func IsInvalidInputError(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// NewPolicyErrorf creates an invalid-policy error with a formatted message
func NewPolicyErrorf(format string, args ...interface{}) error {
	return Wrap(ErrInvalidPolicy, Newf(format, args...).Error())
}

// IsBuildFailed checks if an error is or wraps ErrBuildFailed
func IsBuildFailed(err error) bool {
	return err != nil && Is(err, ErrBuildFailed)
}
