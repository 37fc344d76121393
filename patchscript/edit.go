// Package patchscript composes the display of a patch: it groups the edits between two versions of
// a file into hunks with surrounding context and walks each hunk line by line.
//
// The edit list and the file contents are provided by the caller. An edit list must be ordered and
// non-overlapping, as it is produced by any line based diff algorithm, see [ValidateEdits].
package patchscript

import (
	"errors"
	"fmt"
)

// Edit describes a single region in which the old file (A) and the new file (B) differ.
//
// Both ranges are zero-based and half-open: the edit replaces lines A[BeginA:EndA] with B[BeginB:EndB].
type Edit struct {
	BeginA, EndA int
	BeginB, EndB int
}

// EditType classifies an edit by which of its ranges are empty.
type EditType int

const (
	Empty   EditType = iota // Neither side has lines
	Insert                  // Only B has lines
	Delete                  // Only A has lines
	Replace                 // Both sides have lines
)

func (e Edit) LenA() int { return e.EndA - e.BeginA }
func (e Edit) LenB() int { return e.EndB - e.BeginB }

func (e Edit) Type() EditType {
	switch {
	case e.LenA() > 0 && e.LenB() > 0:
		return Replace
	case e.LenA() > 0:
		return Delete
	case e.LenB() > 0:
		return Insert
	default:
		return Empty
	}
}

func (e Edit) String() string {
	return fmt.Sprintf("%v(%d-%d,%d-%d)", e.Type(), e.BeginA, e.EndA, e.BeginB, e.EndB)
}

func (t EditType) String() string {
	switch t {
	case Empty:
		return "EMPTY"
	case Insert:
		return "INSERT"
	case Delete:
		return "DELETE"
	case Replace:
		return "REPLACE"
	}
	return fmt.Sprintf("EditType(%d)", int(t))
}

var (
	ErrInvalidEdits   = errors.New("invalid edit list")
	ErrInvalidContext = errors.New("invalid context")
)

// ValidateEdits reports whether edits is a well formed edit list. Every edit must have ranges with
// non-negative length and must end before the next one begins, on both sides.
func ValidateEdits(edits []Edit) error {
	for i, e := range edits {
		if e.BeginA < 0 || e.BeginB < 0 || e.LenA() < 0 || e.LenB() < 0 {
			return fmt.Errorf("%w: edit %d %v has a negative range", ErrInvalidEdits, i, e)
		}
		if i == 0 {
			continue
		}
		prev := edits[i-1]
		if prev.EndA > e.BeginA || prev.EndB > e.BeginB {
			return fmt.Errorf("%w: edit %d %v overlaps or precedes edit %d %v", ErrInvalidEdits, i, e, i-1, prev)
		}
	}
	return nil
}
