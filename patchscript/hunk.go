package patchscript

import (
	"fmt"
	"iter"
)

// Hunk is a run of edits that are displayed together. Start and End are inclusive indices into the
// edit list.
type Hunk struct {
	Start, End int
}

// Hunks groups edits into hunks. Two consecutive edits belong to the same hunk if the gap between
// them on either side is at most 2*context lines, i.e. if their context windows touch or overlap.
//
// Every edit is part of exactly one hunk and hunks are produced in ascending order. The sequence
// can be ranged over multiple times, each time recomputing the grouping.
//
// The edits must be ordered as checked by [ValidateEdits] and context must not be negative, Hunks
// panics otherwise. [New] validates both and returns an error instead.
func Hunks(edits []Edit, context int) iter.Seq[Hunk] {
	if context < 0 {
		panic(fmt.Sprintf("negative context %d", context))
	}
	return func(yield func(Hunk) bool) {
		for i := 0; i < len(edits); {
			end := combinedEnd(edits, i, context)
			if !yield(Hunk{i, end}) {
				return
			}
			i = end + 1
		}
	}
}

// combinedEnd returns the index of the last edit that is combined with edits[i]. Each edit is only
// compared to its immediate predecessor.
func combinedEnd(edits []Edit, i, context int) int {
	end := i + 1
	for end < len(edits) && combine(edits[end-1], edits[end], context) {
		if prev, next := edits[end-1], edits[end]; next.BeginA < prev.EndA || next.BeginB < prev.EndB {
			panic(fmt.Sprintf("edit %d %v overlaps or precedes edit %d %v", end, next, end-1, prev))
		}
		end++
	}
	return end - 1
}

func combine(prev, next Edit, context int) bool {
	return next.BeginA-prev.EndA <= 2*context || next.BeginB-prev.EndB <= 2*context
}
