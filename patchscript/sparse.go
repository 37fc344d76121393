package patchscript

import (
	"fmt"
	"slices"
)

// File provides the content of one side of a patch. Content may be sparse, i.e. only the lines
// needed for display might be available.
type File interface {
	// Size returns the total number of lines in the file.
	Size() int
	// Line returns the zero-based line i and true, or false if the line isn't available.
	Line(i int) (string, bool)
}

// SparseFile is a [File] that only holds some of the lines of a file.
type SparseFile struct {
	size   int
	blocks []block
}

// block is a run of consecutive lines starting at base.
type block struct {
	base  int
	lines []string
}

func (b *block) end() int { return b.base + len(b.lines) }

// NewSparseFile returns an empty sparse file with size lines in total.
func NewSparseFile(size int) *SparseFile {
	return &SparseFile{size: size}
}

func (f *SparseFile) Size() int { return f.size }

// AddLine adds line i with the given text. Lines must be added in ascending order.
func (f *SparseFile) AddLine(i int, text string) {
	if i < 0 || i >= f.size {
		panic(fmt.Sprintf("line %d out of range [0, %d)", i, f.size))
	}
	if n := len(f.blocks); n > 0 {
		last := &f.blocks[n-1]
		switch end := last.end(); {
		case i == end:
			last.lines = append(last.lines, text)
			return
		case i < end:
			panic(fmt.Sprintf("line %d added after line %d", i, end-1))
		}
	}
	f.blocks = append(f.blocks, block{base: i, lines: []string{text}})
}

func (f *SparseFile) Line(i int) (string, bool) {
	n, found := slices.BinarySearchFunc(f.blocks, i, func(b block, i int) int {
		switch {
		case i < b.base:
			return 1
		case i >= b.end():
			return -1
		default:
			return 0
		}
	})
	if !found {
		return "", false
	}
	b := f.blocks[n]
	return b.lines[i-b.base], true
}

// Contains reports whether line i is available.
func (f *SparseFile) Contains(i int) bool {
	_, ok := f.Line(i)
	return ok
}

// Lines returns the number of lines that are available.
func (f *SparseFile) Lines() int {
	n := 0
	for _, b := range f.blocks {
		n += len(b.lines)
	}
	return n
}
