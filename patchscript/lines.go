package patchscript

import (
	"fmt"
	"iter"
)

// LineKind classifies a displayed line.
type LineKind int

const (
	Context  LineKind = iota // Unchanged, present in A and B
	Deleted                  // Only present in A
	Inserted                 // Only present in B
	Modified                 // A line of A replaced by a line of B, only produced by [Cursor.Rows]
)

func (k LineKind) String() string {
	switch k {
	case Context:
		return "context"
	case Deleted:
		return "deleted"
	case Inserted:
		return "inserted"
	case Modified:
		return "modified"
	}
	return fmt.Sprintf("LineKind(%d)", int(k))
}

// Line is a single displayed line of a hunk. A and B are the zero-based line positions in the old
// and new file, or -1 if the line doesn't exist on that side.
type Line struct {
	Kind LineKind
	A, B int
}

// Lines walks the cursor in unified order: inside an edit, all deleted lines are produced before
// all inserted lines. The cursor is consumed.
func (c *Cursor) Lines() iter.Seq[Line] {
	return c.walk(false)
}

// Rows walks the cursor in side-by-side order: inside an edit, deleted and inserted lines are
// paired up as [Modified] lines while both sides have lines left. The cursor is consumed.
func (c *Cursor) Rows() iter.Seq[Line] {
	return c.walk(true)
}

func (c *Cursor) walk(pair bool) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for c.HasNextLine() {
			l, ok := c.step(pair)
			c.Advance()
			if ok && !yield(l) {
				return
			}
		}
	}
}

// step classifies the current line and moves past it. It returns false if there is no line to
// display at the current position, which happens after the last edit of the edit list has been
// consumed but before the cursor recognizes the remaining lines as trailing context.
func (c *Cursor) step(pair bool) (Line, bool) {
	switch {
	case c.IsContextLine():
		l := Line{Context, c.aCur, c.bCur}
		if c.aCur < c.aEnd {
			c.aCur++
		} else {
			l.A = -1
		}
		if c.bCur < c.bEnd {
			c.bCur++
		} else {
			l.B = -1
		}
		return l, true
	case pair && c.IsDeletedA() && c.IsInsertedB():
		l := Line{Modified, c.aCur, c.bCur}
		c.IncBoth()
		return l, true
	case c.IsDeletedA():
		l := Line{Deleted, c.aCur, -1}
		c.IncA()
		return l, true
	case c.IsInsertedB():
		l := Line{Inserted, -1, c.bCur}
		c.IncB()
		return l, true
	default:
		return Line{}, false
	}
}
