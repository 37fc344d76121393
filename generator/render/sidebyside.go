package render

import (
	"strings"

	"znkr.io/patchview/patchscript"
)

// Row is a single row of a side-by-side view. It's either a marker for lines that are not shown or
// a pair of lines from both files.
type Row struct {
	Skip  int                  // Number of lines that are not shown, only set for skip markers
	Kind  patchscript.LineKind // Kind of the line pair
	LineA int                  // One-based line number in a, 0 if there's no line in a
	LineB int                  // One-based line number in b, 0 if there's no line in b
	TextA string               // Text of the line in a, without newline
	TextB string               // Text of the line in b, without newline
}

func (r *Row) IsSkip() bool     { return r.Skip > 0 }
func (r *Row) IsContext() bool  { return !r.IsSkip() && r.Kind == patchscript.Context }
func (r *Row) IsDeleted() bool  { return !r.IsSkip() && r.Kind == patchscript.Deleted }
func (r *Row) IsInserted() bool { return !r.IsSkip() && r.Kind == patchscript.Inserted }
func (r *Row) IsModified() bool { return !r.IsSkip() && r.Kind == patchscript.Modified }

// SideBySide returns the rows to display s side by side. Lines between hunks are collapsed into skip
// markers. A patch without edits has no rows.
func SideBySide(s *patchscript.Script) ([]Row, error) {
	var rows []Row
	prevA, prevB := 0, 0
	for c := range s.Hunks() {
		if !c.IsStartOfFile() {
			if n := max(c.CurA()-prevA, c.CurB()-prevB); n > 0 {
				rows = append(rows, Row{Skip: n})
			}
		}
		for l := range c.Rows() {
			r := Row{Kind: l.Kind}
			if l.A >= 0 {
				text, err := lineText(s.A(), "a", l.A)
				if err != nil {
					return nil, err
				}
				r.LineA, r.TextA = l.A+1, trimEOL(text)
			}
			if l.B >= 0 {
				text, err := lineText(s.B(), "b", l.B)
				if err != nil {
					return nil, err
				}
				r.LineB, r.TextB = l.B+1, trimEOL(text)
			}
			rows = append(rows, r)
		}
		prevA, prevB = c.EndA(), c.EndB()
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if n := max(s.A().Size()-prevA, s.B().Size()-prevB); n > 0 {
		rows = append(rows, Row{Skip: n})
	}
	return rows, nil
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
