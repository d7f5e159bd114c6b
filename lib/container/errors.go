// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField is returned when a required record field is
	// absent and has no default.
	ErrMissingField = errors.New("container: missing required field")

	// ErrInvalidFieldFormat is returned when a record field has the
	// wrong type or shape.
	ErrInvalidFieldFormat = errors.New("container: invalid field format")

	// ErrIntegrityMismatch is returned when a supplied hash disagrees
	// with the hash recomputed over the items.
	ErrIntegrityMismatch = errors.New("container: hash mismatch")

	// ErrImmutable is returned by every mutation on a static container.
	ErrImmutable = errors.New("container: static container cannot be modified")

	// ErrUnknownPath is returned when an item path does not exist.
	ErrUnknownPath = errors.New("container: unknown item path")

	// ErrSourceConflict is returned when construction is given no data
	// source or more than one.
	ErrSourceConflict = errors.New("container: exactly one data source required")

	// ErrMalformedArchive is returned when archive bytes are not a
	// readable container: broken ZIP structure, undecodable entries,
	// duplicate entry names, or entries over the size limits.
	ErrMalformedArchive = errors.New("container: malformed archive")

	// ErrInvalidPath is returned for item paths that are empty,
	// absolute, or contain an empty, "." or ".." segment.
	ErrInvalidPath = errors.New("container: invalid item path")

	// ErrSchemaViolation is returned when the schema validator reports
	// violations for one of the mandatory records.
	ErrSchemaViolation = errors.New("container: schema violation")
)

// FieldError describes a problem with one field of a mandatory record.
// Field is a dotted path within the record (e.g. "containerType.name"),
// empty when the whole record is at fault. Err is ErrMissingField or
// ErrInvalidFieldFormat.
type FieldError struct {
	Record string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Record, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Record, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func missingField(record, field string) error {
	return &FieldError{Record: record, Field: field, Err: ErrMissingField}
}

func invalidField(record, field string) error {
	return &FieldError{Record: record, Field: field, Err: ErrInvalidFieldFormat}
}

// IntegrityError reports a hash mismatch found during strict
// construction.
type IntegrityError struct {
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%v: stored %s, computed %s", ErrIntegrityMismatch, e.Expected, e.Actual)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrityMismatch }

// SchemaError carries the violations a [SchemaValidator] reported for
// one record.
type SchemaError struct {
	Record     string
	SchemaID   string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %v (schema %s): %s",
		e.Record, ErrSchemaViolation, e.SchemaID, strings.Join(e.Violations, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrSchemaViolation }
