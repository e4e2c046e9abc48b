// Package parsererror defines the typed errors produced while reading,
// interpreting and persisting workbook content.
package parsererror

import (
	"errors"
	"fmt"
)

// WorkbookError is a structural failure: the input could not be opened or read
// as a workbook container. It aborts the whole import.
type WorkbookError struct {
	Source string
	Op     string
	Err    error
}

func (e *WorkbookError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("workbook %s: %s: %v", e.Source, e.Op, e.Err)
	}
	return fmt.Sprintf("workbook: %s: %v", e.Op, e.Err)
}

func (e *WorkbookError) Unwrap() error {
	return e.Err
}

// ParseError describes a single cell that could not be normalized. Row-level
// defects never abort an import; they are logged and the row is dropped.
type ParseError struct {
	Sheet string
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s row %d: failed to parse %s='%s': %v",
		e.Sheet, e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ResolveError reports a persistence failure while resolving a category or
// account name during an import.
type ResolveError struct {
	Kind string
	Name string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s '%s': %v", e.Kind, e.Name, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when an entity handed to the store breaks one of
// its invariants.
type ValidationError struct {
	Entity string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
}

// IsWorkbookError reports whether err wraps a WorkbookError.
func IsWorkbookError(err error) bool {
	var wbErr *WorkbookError
	return errors.As(err, &wbErr)
}
