// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"fmt"
)

// Errors reported by Parse and the Document accessors. Use errors.Is to test
// for them; Parse wraps them in a *ParseError.
var (
	// ErrMalformedSectionHeader is returned for a section header with no
	// closing bracket or an empty name.
	ErrMalformedSectionHeader = errors.New("malformed section header")

	// ErrDuplicateSection is returned when a section name appears twice in
	// the same source.
	ErrDuplicateSection = errors.New("duplicate section")

	// ErrMalformedEntry describes a line that is neither a comment, a section
	// header, nor a key=value pair. It never aborts parsing: such lines are
	// logged and skipped.
	ErrMalformedEntry = errors.New("could not find '='")

	// ErrNotFound is returned by mutators that require an existing section.
	ErrNotFound = errors.New("not found")
)

// ParseError records a failure at a particular line of the source.
type ParseError struct {
	Line int // 1-based
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse ini file: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
