package builder

import "github.com/akashmaji946/klangc/diag"

// BuildError wraps a fatal builder diagnostic, the "result type at the
// boundary" counterpart to parser.SyntaxError (see DESIGN.md's parser
// entry) - the builder panics one of these on an unrecoverable
// structural error (no enclosing variable-holder, return outside any
// function) and ParseUnit-style top-level Build recovers it.
type BuildError struct {
	Diagnostic *diag.Diagnostic
}

func (e *BuildError) Error() string {
	return diag.Render(e.Diagnostic)
}

func (e *BuildError) Unwrap() error {
	return e.Diagnostic
}
