// Package directives finds directives in documents. A directive is an HTML comment of the form
//
//	<!--#name key="value" other="value" -->
//
// Attribute values are quoted with double quotes, a backslash escapes the following character.
package directives

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Directive struct {
	Pos, End int // Byte offsets of the directive in the input, End is exclusive
	Name     string
	Attrs    map[string]string
}

// HasAttr reports whether the directive has an attribute named key.
func (d *Directive) HasAttr(key string) bool {
	_, ok := d.Attrs[key]
	return ok
}

// Int returns the attribute key as an integer, or def if the attribute is missing.
func (d *Directive) Int(key string, def int) (int, error) {
	v, ok := d.Attrs[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("attribute %s of %s: %v", key, d.Name, err)
	}
	return n, nil
}

var ErrNotFound = errors.New("not found")

type SyntaxError struct {
	Msg       string
	Pos       int
	Line, Col int
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("%s [%d:%d]", err.Msg, err.Line, err.Col)
}

const (
	openTag  = "<!--#"
	closeTag = "-->"
)

// Parse returns all directives in in.
func Parse(in []byte) ([]Directive, error) {
	var dirs []Directive
	for pos := 0; ; {
		i := bytes.Index(in[pos:], []byte(openTag))
		if i < 0 {
			return dirs, nil
		}
		s := &scanner{in: in, pos: pos + i}
		dir, err := s.directive()
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, dir)
		pos = dir.End
	}
}

// ParseFirst returns the first directive with the given name or [ErrNotFound].
func ParseFirst(in []byte, name string) (Directive, error) {
	dirs, err := Parse(in)
	if err != nil {
		return Directive{}, err
	}
	for _, d := range dirs {
		if d.Name == name {
			return d, nil
		}
	}
	return Directive{}, ErrNotFound
}

type scanner struct {
	in  []byte
	pos int
}

func (s *scanner) directive() (Directive, error) {
	d := Directive{Pos: s.pos}
	s.pos += len(openTag)

	d.Name = s.ident()
	if d.Name == "" {
		return d, s.errorf("missing directive name")
	}

	for {
		s.skipSpace()
		switch {
		case s.eof():
			return d, s.errorf("unterminated directive %s", d.Name)
		case bytes.HasPrefix(s.in[s.pos:], []byte(closeTag)):
			s.pos += len(closeTag)
			d.End = s.pos
			return d, nil
		}

		key := s.ident()
		if key == "" {
			return d, s.errorf("unexpected character %q", s.in[s.pos])
		}
		if s.eof() || s.in[s.pos] != '=' {
			return d, s.errorf("missing value for attribute %s", key)
		}
		s.pos++
		val, err := s.quoted()
		if err != nil {
			return d, err
		}
		if _, ok := d.Attrs[key]; ok {
			return d, s.errorf("duplicate attribute %s", key)
		}
		if d.Attrs == nil {
			d.Attrs = make(map[string]string)
		}
		d.Attrs[key] = val
	}
}

func (s *scanner) eof() bool { return s.pos >= len(s.in) }

func (s *scanner) skipSpace() {
	for !s.eof() && strings.IndexByte(" \t\r\n", s.in[s.pos]) >= 0 {
		s.pos++
	}
}

func (s *scanner) ident() string {
	start := s.pos
	for !s.eof() {
		c := s.in[s.pos]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '-' || c == '_') {
			break
		}
		if bytes.HasPrefix(s.in[s.pos:], []byte(closeTag)) {
			break
		}
		s.pos++
	}
	return string(s.in[start:s.pos])
}

func (s *scanner) quoted() (string, error) {
	if s.eof() || s.in[s.pos] != '"' {
		return "", s.errorf("expected quoted value")
	}
	s.pos++
	var sb strings.Builder
	for !s.eof() {
		c := s.in[s.pos]
		s.pos++
		switch c {
		case '"':
			return sb.String(), nil
		case '\\':
			if s.eof() {
				return "", s.errorf("unterminated escape sequence")
			}
			sb.WriteByte(s.in[s.pos])
			s.pos++
		default:
			sb.WriteByte(c)
		}
	}
	return "", s.errorf("unterminated quoted value")
}

func (s *scanner) errorf(format string, args ...any) *SyntaxError {
	line := 1 + bytes.Count(s.in[:s.pos], []byte("\n"))
	col := 1 + s.pos - (bytes.LastIndexByte(s.in[:s.pos], '\n') + 1)
	return &SyntaxError{
		Msg:  fmt.Sprintf(format, args...),
		Pos:  s.pos,
		Line: line,
		Col:  col,
	}
}
