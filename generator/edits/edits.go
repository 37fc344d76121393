// Package edits computes the line edits between two texts and turns them into patch scripts.
package edits

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/diff"
	"znkr.io/diff/textdiff"

	"znkr.io/patchview/patchscript"
)

// Algorithm selects the diff implementation.
type Algorithm int

const (
	Myers          Algorithm = iota // znkr.io/diff
	DiffMatchPatch                  // github.com/sergi/go-diff
)

// ParseAlgorithm parses the name of an algorithm as used in flags and configuration files.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "", "myers":
		return Myers, nil
	case "dmp", "diffmatchpatch":
		return DiffMatchPatch, nil
	}
	return 0, fmt.Errorf("unknown diff algorithm %q", s)
}

func (a Algorithm) String() string {
	switch a {
	case Myers:
		return "myers"
	case DiffMatchPatch:
		return "dmp"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

type Option func(*options)

type options struct {
	algorithm       Algorithm
	indentHeuristic bool
}

// WithAlgorithm selects the diff algorithm, the default is [Myers].
func WithAlgorithm(a Algorithm) Option {
	return func(o *options) {
		o.algorithm = a
	}
}

// IndentHeuristic shifts edits to line up with the indentation of the surrounding code. It's only
// supported by [Myers].
func IndentHeuristic() Option {
	return func(o *options) {
		o.indentHeuristic = true
	}
}

func fromOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

// line is a single line of the line-by-line diff.
type line struct {
	op   diff.Op
	text string
}

// Compute compares the lines of a and b. It returns the edits necessary to transform a into b,
// together with the lines of both texts. Lines include their newline character, if any.
func Compute(a, b string, opts ...Option) (edits []patchscript.Edit, x, y []string) {
	o := fromOptions(opts)
	var lines []line
	switch o.algorithm {
	case DiffMatchPatch:
		lines = dmpLines(a, b)
	default:
		lines = myersLines(a, b, o)
	}
	return collect(lines)
}

func myersLines(a, b string, o *options) []line {
	var dopts []diff.Option
	if o.indentHeuristic {
		dopts = append(dopts, textdiff.IndentHeuristic())
	}
	edits := textdiff.Edits(a, b, dopts...)
	ret := make([]line, 0, len(edits))
	for _, e := range edits {
		ret = append(ret, line{e.Op, e.Line})
	}
	return ret
}

func dmpLines(a, b string) []line {
	dmp := diffmatchpatch.New()
	ra, rb, lineArray := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffMainRunes(ra, rb, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	var ret []line
	for _, d := range diffs {
		var op diff.Op
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = diff.Match
		case diffmatchpatch.DiffDelete:
			op = diff.Delete
		case diffmatchpatch.DiffInsert:
			op = diff.Insert
		}
		// Every rune of the text is an index into lineArray.
		for _, r := range d.Text {
			if idx := int(r); idx >= 0 && idx < len(lineArray) {
				ret = append(ret, line{op, lineArray[idx]})
			}
		}
	}
	return ret
}

// collect coalesces every run of deletions and insertions into a single edit.
func collect(lines []line) (edits []patchscript.Edit, x, y []string) {
	inEdit := false
	for _, l := range lines {
		if l.op == diff.Match {
			x = append(x, l.text)
			y = append(y, l.text)
			inEdit = false
			continue
		}
		if !inEdit {
			edits = append(edits, patchscript.Edit{
				BeginA: len(x), EndA: len(x),
				BeginB: len(y), EndB: len(y),
			})
			inEdit = true
		}
		e := &edits[len(edits)-1]
		switch l.op {
		case diff.Delete:
			x = append(x, l.text)
			e.EndA++
		case diff.Insert:
			y = append(y, l.text)
			e.EndB++
		}
	}
	return edits, x, y
}
