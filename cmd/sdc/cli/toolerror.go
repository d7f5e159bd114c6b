// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/scidatacontainer/scidatacontainer/lib/container"
	"github.com/scidatacontainer/scidatacontainer/lib/containerstore"
	"github.com/scidatacontainer/scidatacontainer/lib/remote"
)

// ErrorCategory classifies command errors so scripts can react to the
// exit code without parsing messages.
type ErrorCategory string

const (
	// CategoryValidation: bad arguments or an invalid container.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a referenced file, item, or container does not
	// exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryConflict: the operation conflicts with existing state,
	// such as modifying a static container.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient: network failure; retrying may help.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: unexpected I/O or encoding failure.
	CategoryInternal ErrorCategory = "internal"
)

// ExitCode returns the process exit code for the category.
func (c ErrorCategory) ExitCode() int {
	switch c {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryConflict:
		return 4
	case CategoryTransient:
		return 5
	default:
		return 1
	}
}

// ToolError is a categorized error returned by commands.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Classify wraps err in a ToolError whose category follows the
// library sentinel it carries. Errors that are already ToolErrors and
// nil pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return err
	}
	return &ToolError{Category: categoryOf(err), Err: err}
}

func categoryOf(err error) ErrorCategory {
	switch {
	case errors.Is(err, container.ErrUnknownPath),
		errors.Is(err, containerstore.ErrNotFound),
		errors.Is(err, fs.ErrNotExist):
		return CategoryNotFound
	case errors.Is(err, container.ErrImmutable),
		errors.Is(err, containerstore.ErrConflict):
		return CategoryConflict
	case errors.Is(err, remote.ErrTransport):
		return CategoryTransient
	case errors.Is(err, container.ErrMissingField),
		errors.Is(err, container.ErrInvalidFieldFormat),
		errors.Is(err, container.ErrIntegrityMismatch),
		errors.Is(err, container.ErrMalformedArchive),
		errors.Is(err, container.ErrInvalidPath),
		errors.Is(err, container.ErrSchemaViolation),
		errors.Is(err, container.ErrSourceConflict),
		errors.Is(err, containerstore.ErrInvalidUUID),
		errors.Is(err, remote.ErrMissingServer),
		errors.Is(err, remote.ErrMissingKey):
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
