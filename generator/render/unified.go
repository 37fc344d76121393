// Package render renders patch scripts for display.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"znkr.io/patchview/patchscript"
)

// Unified writes s in unified diff format to w. Nothing is written if s has no edits.
func Unified(w io.Writer, s *patchscript.Script) error {
	if len(s.Edits()) == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)
	for _, h := range s.Header() {
		fmt.Fprintln(bw, h)
	}
	for c := range s.Hunks() {
		fmt.Fprintf(bw, "@@ -%s +%s @@\n", hunkRange(c.CurA(), c.EndA()), hunkRange(c.CurB(), c.EndB()))
		for l := range c.Lines() {
			var (
				prefix byte
				text   string
				err    error
			)
			switch l.Kind {
			case patchscript.Context:
				prefix = ' '
				if l.A >= 0 {
					text, err = lineText(s.A(), "a", l.A)
				} else {
					text, err = lineText(s.B(), "b", l.B)
				}
			case patchscript.Deleted:
				prefix = '-'
				text, err = lineText(s.A(), "a", l.A)
			case patchscript.Inserted:
				prefix = '+'
				text, err = lineText(s.B(), "b", l.B)
			}
			if err != nil {
				return err
			}
			bw.WriteByte(prefix)
			bw.WriteString(text)
			if !strings.HasSuffix(text, "\n") {
				bw.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}
	return bw.Flush()
}

// hunkRange formats the zero-based half-open range [start, end) as a unified diff range. Lines are
// one-based in the output and an empty range refers to the line before it.
func hunkRange(start, end int) string {
	switch n := end - start; n {
	case 0:
		return fmt.Sprintf("%d,0", start)
	case 1:
		return fmt.Sprintf("%d", start+1)
	default:
		return fmt.Sprintf("%d,%d", start+1, n)
	}
}

func lineText(f patchscript.File, side string, i int) (string, error) {
	text, ok := f.Line(i)
	if !ok {
		return "", fmt.Errorf("line %d of %s is not available", i+1, side)
	}
	return text, nil
}
