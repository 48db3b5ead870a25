// Package source tracks byte/line/column coordinates over a source buffer.
//
// A Coord is the (byte position, line, column) triple every later stage
// (lexemes, AST nodes, diagnostics) anchors itself to. Lines and columns are
// 1-indexed; byte position is 0-indexed so it can slice directly into the
// original buffer.
package source

import "fmt"

// Coord is a single point in a source buffer.
type Coord struct {
	Pos  int // byte offset, 0-indexed
	Line int // 1-indexed
	Col  int // 1-indexed
}

// String renders a coordinate as "line,col" per the diagnostic record format.
func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.Line, c.Col)
}

// Range is a half-open [Start, End) span over a source buffer.
type Range struct {
	Start Coord
	End   Coord
}

// String renders a range as "start-end".
func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Len returns the byte length of the range.
func (r Range) Len() int {
	return r.End.Pos - r.Start.Pos
}

// Join returns the smallest range covering both r and other.
func (r Range) Join(other Range) Range {
	out := r
	if other.Start.Pos < out.Start.Pos {
		out.Start = other.Start
	}
	if other.End.Pos > out.End.Pos {
		out.End = other.End
	}
	return out
}

// Tracker advances a Coord one byte at a time, normalizing CR, LF and CRLF
// line terminators to a single line increment. It is the shared primitive
// behind the lexer's position bookkeeping (originally inline in the
// teacher's Lexer.Advance/IgnoreWhitespacesAndComments), pulled out as a
// standalone value type so it carries no dependency on the rest of the
// lexer.
type Tracker struct {
	cur      Coord
	lastWasCR bool
}

// NewTracker returns a Tracker positioned at the start of a buffer (line 1,
// column 1, byte offset 0).
func NewTracker() Tracker {
	return Tracker{cur: Coord{Pos: 0, Line: 1, Col: 1}}
}

// At returns the current coordinate.
func (t Tracker) At() Coord {
	return t.cur
}

// Advance moves the tracker past one input byte b, updating line/column
// bookkeeping. CR, LF and CRLF all count as exactly one line terminator.
func (t *Tracker) Advance(b byte) {
	t.cur.Pos++
	switch b {
	case '\r':
		t.cur.Line++
		t.cur.Col = 1
		t.lastWasCR = true
		return
	case '\n':
		if t.lastWasCR {
			// second half of a CRLF pair: already counted by the CR above.
			t.lastWasCR = false
			return
		}
		t.cur.Line++
		t.cur.Col = 1
		return
	default:
		t.cur.Col++
		t.lastWasCR = false
	}
}
