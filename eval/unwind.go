package eval

import "github.com/east-lang/east/value"

// Unwind is a non-local control transfer in flight: a Return racing to
// its call frame, or a Break/Continue racing to a named (or nearest
// enclosing) loop. Modeled as a plain returned value rather than
// panic/recover (spec §4.F.2/§4.F.6 describe these as typed unwinds, and
// a recovered panic loses the static guarantee that every compiled node
// threads its error/unwind result explicitly) - every Callable returns
// (value.Value, Unwind, error) and callers that don't handle a given
// Unwind kind simply propagate it outward unexamined.
type Unwind interface {
	isUnwind()
}

// ReturnUnwind carries a Function/AsyncFunction body's result out to its
// Call/CallAsync boundary.
type ReturnUnwind struct {
	Value value.Value
}

// BreakUnwind exits the loop named Label, or the nearest enclosing loop
// if Label is empty.
type BreakUnwind struct {
	Label string
}

// ContinueUnwind skips to the next iteration of the loop named Label, or
// the nearest enclosing loop if Label is empty.
type ContinueUnwind struct {
	Label string
}

func (ReturnUnwind) isUnwind()   {}
func (BreakUnwind) isUnwind()    {}
func (ContinueUnwind) isUnwind() {}
