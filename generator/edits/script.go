package edits

import (
	"fmt"

	"znkr.io/patchview/patchscript"
)

// Script compares a and b and returns the patch script to display the result with the given
// context. Only lines that are visible in one of the hunks are retained in the script's files.
//
// nameA and nameB are used for the patch header, an empty name denotes a missing file.
func Script(nameA, nameB, a, b string, context int, opts ...Option) (*patchscript.Script, error) {
	edits, x, y := Compute(a, b, opts...)
	context = patchscript.ResolveContext(context, len(x), len(y))
	if context < 0 {
		return nil, fmt.Errorf("%w: %d", patchscript.ErrInvalidContext, context)
	}

	fa := patchscript.NewSparseFile(len(x))
	fb := patchscript.NewSparseFile(len(y))
	for h := range patchscript.Hunks(edits, context) {
		first, last := edits[h.Start], edits[h.End]
		for i := max(0, first.BeginA-context); i < min(len(x), last.EndA+context); i++ {
			fa.AddLine(i, x[i])
		}
		for i := max(0, first.BeginB-context); i < min(len(y), last.EndB+context); i++ {
			fb.AddLine(i, y[i])
		}
	}

	return patchscript.New(Header(nameA, nameB), context, fa, fb, edits)
}

// Header returns the header lines of a git style patch between the files nameA and nameB.
func Header(nameA, nameB string) []string {
	pathA, pathB := "/dev/null", "/dev/null"
	if nameA != "" {
		pathA = "a/" + nameA
	}
	if nameB != "" {
		pathB = "b/" + nameB
	}
	gitA, gitB := nameA, nameB
	if gitA == "" {
		gitA = nameB
	}
	if gitB == "" {
		gitB = nameA
	}
	return []string{
		fmt.Sprintf("diff --git a/%s b/%s", gitA, gitB),
		"--- " + pathA,
		"+++ " + pathB,
	}
}
