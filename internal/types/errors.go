// =============================================================================
// Ledger Extractor - Error Kinds
// =============================================================================
//
// Every failure of a single-file extraction is reported as a *LedgerError
// carrying one of the kinds below. Callers test the kind with errors.Is
// against the sentinel values:
//
//   if errors.Is(err, types.ErrMissingPeriod) { ... }
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an extraction failure.
type ErrorKind int

const (
	// InvalidPath: not a workbook path, or a spreadsheet editor lock file.
	InvalidPath ErrorKind = iota + 1

	// UnrecognizedLedger: the path tokens match none of the known layouts.
	UnrecognizedLedger

	// MissingPeriod: no parseable period in the header cell or file name.
	MissingPeriod

	// MalformedRow: a cell the current scan step relies on is unusable.
	MalformedRow
)

// String returns the name used in logs and the run summary.
func (k ErrorKind) String() string {
	switch k {
	case InvalidPath:
		return "InvalidPath"
	case UnrecognizedLedger:
		return "UnrecognizedLedger"
	case MissingPeriod:
		return "MissingPeriod"
	case MalformedRow:
		return "MalformedRow"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is.
var (
	ErrInvalidPath        = errors.New("invalid path")
	ErrUnrecognizedLedger = errors.New("unrecognized ledger")
	ErrMissingPeriod      = errors.New("missing period")
	ErrMalformedRow       = errors.New("malformed row")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case InvalidPath:
		return ErrInvalidPath
	case UnrecognizedLedger:
		return ErrUnrecognizedLedger
	case MissingPeriod:
		return ErrMissingPeriod
	case MalformedRow:
		return ErrMalformedRow
	default:
		return nil
	}
}

// LedgerError is a single-file extraction failure.
type LedgerError struct {
	// Kind is the failure class.
	Kind ErrorKind

	// Path is the input file the failure belongs to.
	Path string

	// Row and Column locate the offending cell (1-based). Zero when the
	// failure is not tied to a cell.
	Row    int
	Column int

	// Detail is a human-readable description.
	Detail string
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	if e.Row > 0 {
		msg = fmt.Sprintf("%s (row %d", msg, e.Row)
		if e.Column > 0 {
			msg = fmt.Sprintf("%s, column %d", msg, e.Column)
		}
		msg += ")"
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	return msg
}

// Is matches the sentinel of the error kind.
func (e *LedgerError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// NewError creates a LedgerError that is not tied to a cell.
func NewError(kind ErrorKind, path, format string, args ...interface{}) *LedgerError {
	return &LedgerError{Kind: kind, Path: path, Detail: fmt.Sprintf(format, args...)}
}

// NewCellError creates a LedgerError located at a cell.
func NewCellError(kind ErrorKind, path string, row, column int, format string, args ...interface{}) *LedgerError {
	return &LedgerError{Kind: kind, Path: path, Row: row, Column: column, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a LedgerError anywhere in the chain, or zero.
func KindOf(err error) ErrorKind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}
