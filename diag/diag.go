/*
Package diag implements the diagnostic sink every later pipeline stage
(lexer, parser, builder, types, resolver) reports into.

A Diagnostic is a severity-coded message bound to a source range, per
spec.md §6.5. Diagnostics are numbered: each subsystem owns a 16-bit class
(lexer 0x0000, parser 0x1000, builder 0x2000, types 0x3000, resolver
0x4000; see spec.md §7), and implements the error interface so it can be
threaded through ordinary Go error returns instead of a panic/recover
exception, per the "exception-based control flow -> result types" design
note.
*/
package diag

import "fmt"

// Severity is the closed set of diagnostic severities.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String renders the severity the way the diagnostic printer expects it.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Subsystem classes, per spec.md §7. Each subsystem's codes live in
// Class+0x0001 .. Class+0x0fff.
const (
	ClassLexer    uint32 = 0x0000
	ClassParser   uint32 = 0x1000
	ClassBuilder  uint32 = 0x2000
	ClassTypes    uint32 = 0x3000
	ClassResolver uint32 = 0x4000
)

// Diagnostic is a single severity+code+range+message record.
type Diagnostic struct {
	Severity Severity
	Code     uint32
	Pos      Position
	Template string
	Args     []string
}

// Position carries the diagnostic's start, end and "anchor" coordinate.
// Most diagnostics anchor on Start; a handful (e.g. "expected token here")
// anchor on a single point distinct from the offending range.
type Position struct {
	Start At
	End   At
	At    At
}

// At mirrors source.Coord without importing the source package, so diag has
// no dependency on anything upstream of it; callers convert from
// source.Coord at the call site.
type At struct {
	Line int
	Col  int
}

// Error implements the error interface so a *Diagnostic can be returned (or
// wrapped with %w) directly from a fallible operation.
func (d *Diagnostic) Error() string {
	return Render(d)
}

// Render formats a diagnostic exactly per spec.md §6.5:
//
//	line,col - <severity> <5-hex code> : <rendered message>
//
// No colour and no multi-line pretty-printing are required by the
// specification, so this is deliberately built on fmt rather than a
// terminal-colour library (see SPEC_FULL.md / DESIGN.md for why
// fatih/color was dropped here).
func Render(d *Diagnostic) string {
	msg := renderTemplate(d.Template, d.Args)
	return fmt.Sprintf("%d,%d - %s %05x : %s", d.Pos.At.Line, d.Pos.At.Col, d.Severity, d.Code, msg)
}

func renderTemplate(template string, args []string) string {
	out := make([]byte, 0, len(template))
	argIdx := 0
	for i := 0; i < len(template); i++ {
		if template[i] == '%' && i+1 < len(template) && template[i+1] == 's' {
			if argIdx < len(args) {
				out = append(out, args[argIdx]...)
				argIdx++
			}
			i++
			continue
		}
		out = append(out, template[i])
	}
	return string(out)
}

// Sink accepts diagnostics produced by any pipeline stage.
type Sink interface {
	Emit(d *Diagnostic)
}

// Collector is the default in-memory Sink: an ordered slice of diagnostics,
// generalizing the teacher's Parser.Errors []string / addError pattern
// (parser/parser.go) into typed, code-bearing records.
type Collector struct {
	items []*Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Emit appends a diagnostic, preserving emission order (source order
// within one stage, since every stage runs single-pass left to right;
// diagnostics of a later stage follow all those of an earlier one).
func (c *Collector) Emit(d *Diagnostic) {
	c.items = append(c.items, d)
}

// All returns every collected diagnostic in emission order.
func (c *Collector) All() []*Diagnostic {
	return c.items
}

// HasErrors reports whether any collected diagnostic has Error severity.
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// RenderAll renders every collected diagnostic in emission order, one
// line per diagnostic.
func (c *Collector) RenderAll() []string {
	out := make([]string, len(c.items))
	for i, d := range c.items {
		out[i] = Render(d)
	}
	return out
}
