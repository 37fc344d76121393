package patchscript

import "fmt"

// Cursor walks the lines of a single hunk. It tracks one position in the old file (A) and one in
// the new file (B), both of which only ever move forward.
//
// A typical consumer looks like this:
//
//	for c.HasNextLine() {
//		switch {
//		case c.IsContextLine():
//			// show A[c.CurA()] == B[c.CurB()]
//			c.IncBoth()
//		case c.IsDeletedA():
//			// show A[c.CurA()] as deleted
//			c.IncA()
//		case c.IsInsertedB():
//			// show B[c.CurB()] as inserted
//			c.IncB()
//		}
//		c.Advance()
//	}
//
// The line classification is derived from comparing the positions with the bounds of the current
// edit, no further state is kept. [Cursor.Lines] and [Cursor.Rows] implement the two common ways
// of walking a hunk.
type Cursor struct {
	edits []Edit

	curIdx  int
	curEdit Edit
	endIdx  int
	endEdit Edit

	aCur, bCur int
	aEnd, bEnd int
}

// NewCursor returns a cursor over hunk h of edits. The hunk's context window is clamped to the file
// sizes aSize and bSize. It panics if h is not a hunk of edits or if context is negative.
func NewCursor(edits []Edit, h Hunk, context, aSize, bSize int) *Cursor {
	if h.Start < 0 || h.End < h.Start || h.End >= len(edits) {
		panic(fmt.Sprintf("hunk [%d, %d] out of range for %d edits", h.Start, h.End, len(edits)))
	}
	if context < 0 {
		panic(fmt.Sprintf("negative context %d", context))
	}
	c := &Cursor{
		edits:   edits,
		curIdx:  h.Start,
		curEdit: edits[h.Start],
		endIdx:  h.End,
		endEdit: edits[h.End],
	}
	c.aCur = max(0, c.curEdit.BeginA-context)
	c.bCur = max(0, c.curEdit.BeginB-context)
	c.aEnd = min(aSize, c.endEdit.EndA+context)
	c.bEnd = min(bSize, c.endEdit.EndB+context)
	return c
}

func (c *Cursor) CurA() int { return c.aCur }
func (c *Cursor) CurB() int { return c.bCur }
func (c *Cursor) EndA() int { return c.aEnd }
func (c *Cursor) EndB() int { return c.bEnd }

// IncA moves the position in A to the next line.
func (c *Cursor) IncA() {
	if c.aCur >= c.aEnd {
		panic(fmt.Sprintf("IncA past end of hunk (%d >= %d)", c.aCur, c.aEnd))
	}
	c.aCur++
}

// IncB moves the position in B to the next line.
func (c *Cursor) IncB() {
	if c.bCur >= c.bEnd {
		panic(fmt.Sprintf("IncB past end of hunk (%d >= %d)", c.bCur, c.bEnd))
	}
	c.bCur++
}

// IncBoth moves both positions to the next line.
func (c *Cursor) IncBoth() {
	c.IncA()
	c.IncB()
}

// IsStartOfFile reports whether both positions are at the first line of their file. A renderer
// doesn't need to show that lines were skipped before a hunk that starts at the beginning of the
// file.
func (c *Cursor) IsStartOfFile() bool {
	return c.aCur == 0 && c.bCur == 0
}

// HasNextLine reports whether the hunk has lines left on either side.
func (c *Cursor) HasNextLine() bool {
	return c.aCur < c.aEnd || c.bCur < c.bEnd
}

// IsContextLine reports whether the current line is unchanged. That's the case before the current
// edit starts and after the cursor moved past the last edit of the hunk.
func (c *Cursor) IsContextLine() bool {
	return c.aCur < c.curEdit.BeginA || c.endIdx+1 < c.curIdx
}

// IsDeletedA reports whether the current line in A is removed by the current edit.
func (c *Cursor) IsDeletedA() bool {
	return c.aCur < c.curEdit.EndA
}

// IsInsertedB reports whether the current line in B is added by the current edit.
func (c *Cursor) IsInsertedB() bool {
	return c.bCur < c.curEdit.EndB
}

// IsModifiedLine reports whether the current line is part of the current edit on either side.
func (c *Cursor) IsModifiedLine() bool {
	return c.IsDeletedA() || c.IsInsertedB()
}

// Advance moves on to the next edit once the current edit is consumed on both sides, it must be
// called once per step after the positions have been updated.
//
// The edit index keeps counting past the end of the hunk (and past the end of the edit list), the
// current edit only changes while the index refers to an edit. Once the index is more than one past
// the hunk's last edit, every remaining line is context.
func (c *Cursor) Advance() {
	if c.aCur < c.curEdit.EndA || c.bCur < c.curEdit.EndB {
		return
	}
	c.curIdx++
	if c.curIdx < len(c.edits) {
		c.curEdit = c.edits[c.curIdx]
	}
}
