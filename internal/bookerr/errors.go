// Package bookerr defines the error types raised while extracting, matching
// and posting receipt data. Three families exist: extraction errors (a cell or
// title could not be parsed), reconciliation errors (numbers or matches do not
// line up, reported as warnings) and integrity errors (a receipt is unusable
// and must be skipped).
package bookerr

import "fmt"

// ExtractionError reports a value that could not be parsed out of the grid.
// It always carries the tab and cell identity of the offending value.
type ExtractionError struct {
	Tab   string
	Label string
	Value string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("cannot convert '%s' in tab '%s', cell %s: %v",
			e.Value, e.Tab, e.Label, e.Err)
	}
	return fmt.Sprintf("cannot convert '%s' in tab '%s': %v", e.Value, e.Tab, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ReconciliationError reports amounts or matches that do not add up. It is a
// warning to the operator and carries enough context to resolve by hand.
type ReconciliationError struct {
	Tab    string
	Reason string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed in '%s': %s", e.Tab, e.Reason)
}

// IntegrityError marks a receipt or tab whose data is structurally unusable.
// Callers must skip the item rather than post partial data.
type IntegrityError struct {
	Tab    string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("tab '%s' has unusable data: %s", e.Tab, e.Reason)
}

// TitleError reports a tab or file title that a date could not be read from.
type TitleError struct {
	Title string
	Msg   string
}

func (e *TitleError) Error() string {
	return fmt.Sprintf("title '%s': %s", e.Title, e.Msg)
}
