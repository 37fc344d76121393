package site

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseMetadata extracts the metadata header from in, if any. The metadata header has the
// following format
//
//	# <title>
//	:<key>: <value>
//	:<key>: <value>
//
// A value is continued on the next line if the line ends with a backslash. It returns the parsed
// metadata and the remaining input data (i.e. everything after the metadata header). A document
// without a title has no metadata.
func parseMetadata(in []byte) (*Metadata, []byte, error) {
	title, rest, ok := bytes.Cut(in, []byte("\n"))
	if !bytes.HasPrefix(title, []byte("# ")) {
		return nil, in, nil
	}
	meta := &Metadata{Title: strings.TrimSpace(string(title[2:]))}
	if !ok {
		return meta, nil, nil
	}
	in = rest

	attrs := make(map[string]string)
	for len(in) > 0 && in[0] == ':' {
		var val strings.Builder
		var line []byte
		for {
			line, in, _ = bytes.Cut(in, []byte("\n"))
			cont, ok := bytes.CutSuffix(line, []byte("\\"))
			val.Write(cont)
			if !ok || len(in) == 0 {
				break
			}
			val.WriteByte('\n')
		}
		key, v, ok := strings.Cut(val.String()[1:], ":")
		if !ok {
			return nil, nil, fmt.Errorf("invalid metadata line %q", val.String())
		}
		attrs[strings.TrimSpace(key)] = strings.TrimSpace(v)
	}

	// Strip blank lines.
	for len(in) > 0 && in[0] == '\n' {
		in = in[1:]
	}

	parseTime := func(key string) (time.Time, error) {
		v, ok := attrs[key]
		if !ok {
			return time.Time{}, nil
		}
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing %s: %v", key, err)
		}
		return t, nil
	}
	var err error
	if meta.Published, err = parseTime("published"); err != nil {
		return nil, nil, err
	}
	if meta.Updated, err = parseTime("updated"); err != nil {
		return nil, nil, err
	}
	if meta.Updated.IsZero() {
		meta.Updated = meta.Published
	}

	if v, ok := attrs["context"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing context: %v", err)
		}
		meta.Context = &n
	}
	if v, ok := attrs["toc"]; ok {
		if meta.TOC, err = strconv.ParseBool(v); err != nil {
			return nil, nil, fmt.Errorf("parsing toc: %v", err)
		}
	}

	meta.Abstract = attrs["summary"]
	meta.Author = attrs["author"]
	meta.Template = attrs["template"]
	return meta, in, nil
}
