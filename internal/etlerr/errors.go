// Package etlerr defines the error taxonomy shared by every pipeline stage.
//
// Each stage returns one of these types (possibly wrapped with fmt.Errorf and
// %w) so callers can branch with errors.As and still get the table, column or
// stage that failed from the message.
package etlerr

import (
	"fmt"
)

// ConnectionError reports that the relational store could not be opened.
type ConnectionError struct {
	DSN string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %q: %v", e.DSN, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a failed catalog or table read. Table is empty for
// catalog queries.
type QueryError struct {
	Table string
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("query catalog: %v", e.Err)
	}
	return fmt.Sprintf("query table %q: %v", e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// JoinKeyError reports a join step whose table or key column is absent.
type JoinKeyError struct {
	Step   int
	Table  string
	Column string
	Reason string
}

func (e *JoinKeyError) Error() string {
	msg := fmt.Sprintf("join step %d: table %q", e.Step, e.Table)
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	if e.Reason == "" {
		return msg + ": not found"
	}
	return msg + ": " + e.Reason
}

// ColumnNotFoundError reports a column a transform expected but did not find.
type ColumnNotFoundError struct {
	Stage  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("%s: column %q not found", e.Stage, e.Column)
}

// ParseError reports a localized-name cell that is not a serialized object.
// Row is zero-based.
type ParseError struct {
	Column string
	Row    int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse column %q row %d: %v", e.Column, e.Row, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingLocaleError reports a localized-name cell without the requested
// locale key. No fallback locale is ever substituted.
type MissingLocaleError struct {
	Column string
	Row    int
	Locale string
}

func (e *MissingLocaleError) Error() string {
	return fmt.Sprintf("column %q row %d: locale %q missing", e.Column, e.Row, e.Locale)
}
