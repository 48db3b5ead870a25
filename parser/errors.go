package parser

import "github.com/akashmaji946/klangc/diag"

// SyntaxError wraps a parser diagnostic as a Go error (spec.md §4.2
// "Fatal grammar errors throw a parsing error after logging a
// diagnostic"), the same result-type substitute for exceptions diag uses
// elsewhere in this module (spec.md §9's exceptions-as-errors redesign).
type SyntaxError struct {
	Diagnostic *diag.Diagnostic
}

func (e *SyntaxError) Error() string {
	return diag.Render(e.Diagnostic)
}

func (e *SyntaxError) Unwrap() error {
	return e.Diagnostic
}
