package patchscript

import (
	"fmt"
	"iter"
)

// WholeFile can be used as context size to request that the complete file is shown. It must be
// resolved to an actual size with [ResolveContext] before it's passed to [New].
const WholeFile = -1

// ResolveContext returns the context to use for files with aSize and bSize lines. It resolves
// [WholeFile] and returns all other values unchanged.
func ResolveContext(context, aSize, bSize int) int {
	if context == WholeFile {
		return max(aSize, bSize)
	}
	return context
}

// Script is everything needed to display a patch of a single file: the patch header, the content of
// both sides of the patch and the edits between them.
type Script struct {
	header  []string
	context int
	a, b    File
	edits   []Edit
}

// New creates a new script. It fails if context is negative or if edits isn't a valid edit list for
// files a and b.
func New(header []string, context int, a, b File, edits []Edit) (*Script, error) {
	if context < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidContext, context)
	}
	if err := ValidateEdits(edits); err != nil {
		return nil, err
	}
	if n := len(edits); n > 0 {
		last := edits[n-1]
		if last.EndA > a.Size() || last.EndB > b.Size() {
			return nil, fmt.Errorf("%w: edit %d %v exceeds file sizes %d and %d", ErrInvalidEdits, n-1, last, a.Size(), b.Size())
		}
	}
	return &Script{
		header:  header,
		context: context,
		a:       a,
		b:       b,
		edits:   edits,
	}, nil
}

func (s *Script) Header() []string { return s.header }
func (s *Script) Context() int     { return s.context }
func (s *Script) A() File          { return s.a }
func (s *Script) B() File          { return s.b }
func (s *Script) Edits() []Edit    { return s.edits }

// Hunks returns a cursor for every hunk of the patch. Every cursor is newly created when it's
// produced.
func (s *Script) Hunks() iter.Seq[*Cursor] {
	return func(yield func(*Cursor) bool) {
		for h := range Hunks(s.edits, s.context) {
			if !yield(s.Cursor(h)) {
				return
			}
		}
	}
}

// Cursor returns a new cursor over hunk h.
func (s *Script) Cursor(h Hunk) *Cursor {
	return NewCursor(s.edits, h, s.context, s.a.Size(), s.b.Size())
}
