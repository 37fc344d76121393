package site

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/toc"
	"golang.org/x/tools/blog/atom"

	"znkr.io/patchview/generator/directives"
	"znkr.io/patchview/generator/edits"
	"znkr.io/patchview/generator/render"
	"znkr.io/patchview/patchscript"
)

type renderer interface {
	render(s *Site, doc *Doc, data []byte) ([]byte, error)
}

func chain(a, b renderer) renderer {
	var ret chainedRenderer
	for _, r := range []renderer{a, b} {
		switch r := r.(type) {
		case chainedRenderer:
			ret = append(ret, r...)
		case *passthroughRenderer:
			// nothing to do
		default:
			ret = append(ret, r)
		}
	}
	return ret
}

type passthroughRenderer struct{}

func (r *passthroughRenderer) render(_ *Site, _ *Doc, data []byte) ([]byte, error) {
	return data, nil
}

type chainedRenderer []renderer

func (r chainedRenderer) render(site *Site, doc *Doc, data []byte) ([]byte, error) {
	for _, r := range r {
		var err error
		data, err = r.render(site, doc, data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

type markdownRenderer struct{}

func (r *markdownRenderer) render(_ *Site, doc *Doc, data []byte) ([]byte, error) {
	exts := []goldmark.Extender{extension.GFM, extension.Footnote}
	if doc.meta != nil && doc.meta.TOC {
		exts = append(exts, &toc.Extender{Title: "Contents"})
	}
	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	var buf bytes.Buffer
	if err := md.Convert(data, &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %v", err)
	}

	return buf.Bytes(), nil
}

type directivesRenderer struct{}

func (r *directivesRenderer) render(s *Site, doc *Doc, data []byte) ([]byte, error) {
	dirs, err := directives.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directives: %v", err)
	}

	if len(dirs) == 0 {
		return data, nil
	}

	var buf bytes.Buffer
	pos := 0
	for _, dir := range dirs {
		buf.Write(data[pos:dir.Pos])

		switch dir.Name {
		case "patch":
			if err := renderPatch(&buf, s, doc, &dir); err != nil {
				return nil, fmt.Errorf("patch: %v", err)
			}
		default:
			return nil, fmt.Errorf("unknown directive: %s", dir.Name)
		}
		pos = dir.End
	}
	buf.Write(data[pos:])
	return buf.Bytes(), nil
}

// patchContext returns the number of context lines for a patch directive in doc.
func patchContext(s *Site, doc *Doc, dir *directives.Directive) (int, error) {
	def := s.opts.Context
	if doc.meta != nil && doc.meta.Context != nil {
		def = *doc.meta.Context
	}
	if dir.Attrs["context"] == "all" {
		return patchscript.WholeFile, nil
	}
	return dir.Int("context", def)
}

func renderPatch(buf *bytes.Buffer, s *Site, doc *Doc, dir *directives.Directive) error {
	afile, bfile := dir.Attrs["a"], dir.Attrs["b"]
	if afile == "" && bfile == "" {
		return fmt.Errorf("missing or empty a and b attributes")
	}
	a, err := readSource(doc, afile)
	if err != nil {
		return err
	}
	b, err := readSource(doc, bfile)
	if err != nil {
		return err
	}

	context, err := patchContext(s, doc, dir)
	if err != nil {
		return err
	}
	algo := s.opts.Algorithm
	if v, ok := dir.Attrs["algorithm"]; ok {
		if algo, err = edits.ParseAlgorithm(v); err != nil {
			return err
		}
	}
	opts := []edits.Option{edits.WithAlgorithm(algo)}
	if s.opts.IndentHeuristic {
		opts = append(opts, edits.IndentHeuristic())
	}

	script, err := edits.Script(sourceName(afile), sourceName(bfile), a, b, context, opts...)
	if err != nil {
		return err
	}
	rows, err := render.SideBySide(script)
	if err != nil {
		return err
	}

	added, deleted := 0, 0
	for _, e := range script.Edits() {
		added += e.LenB()
		deleted += e.LenA()
	}

	t := s.templates.Lookup("fragments/patch")
	if t == nil {
		return fmt.Errorf("template not found fragments/patch")
	}
	err = t.Execute(buf, struct {
		File    string
		Header  []string
		Rows    []render.Row
		Added   int
		Deleted int
	}{
		File:    cmp.Or(dir.Attrs["display"], sourceName(bfile), sourceName(afile)),
		Header:  script.Header(),
		Rows:    rows,
		Added:   added,
		Deleted: deleted,
	})
	if err != nil {
		return fmt.Errorf("rendering template: %v", err)
	}
	return nil
}

func sourceName(name string) string {
	if name == "/dev/null" {
		return ""
	}
	return name
}

// readSource reads the file name relative to the directory of doc. An empty name or /dev/null is
// an empty file, names that leave the directory of doc are rejected.
func readSource(doc *Doc, name string) (string, error) {
	if sourceName(name) == "" {
		return "", nil
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", fmt.Errorf("file outside of the review directory: %s", name)
	}
	b, err := os.ReadFile(filepath.Join(doc.Dir(), filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("file not found: %s", name)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type templateRenderer struct {
	template *template.Template
}

func (r *templateRenderer) render(s *Site, doc *Doc, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := r.template.Execute(&buf, struct {
		Meta    *Metadata
		Site    *Site
		Content template.HTML
	}{
		Meta:    doc.Meta(),
		Site:    s,
		Content: template.HTML(data),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering template: %v", err)
	}
	return buf.Bytes(), nil
}

type feedRenderer struct{}

func (r *feedRenderer) render(s *Site, doc *Doc, _ []byte) ([]byte, error) {
	reviews := s.Reviews()

	feed := atom.Feed{
		Title: doc.Meta().Title,
		ID:    s.opts.BaseURL + "/",
		Link: []atom.Link{{
			Rel:  "self",
			Href: s.opts.BaseURL + doc.Path(),
		}},
	}
	if len(reviews) > 0 {
		feed.Updated = atom.Time(reviews[0].Meta().Updated)
	}

	for _, doc := range reviews {
		html, err := s.RenderContent(doc)
		if err != nil {
			return nil, err
		}

		e := &atom.Entry{
			Title: doc.Meta().Title,
			ID:    s.opts.BaseURL + doc.Path(),
			Link: []atom.Link{{
				Rel:  "alternate",
				Href: s.opts.BaseURL + doc.Path(),
			}},
			Published: atom.Time(doc.Meta().Published),
			Updated:   atom.Time(doc.Meta().Updated),
			Summary: &atom.Text{
				Type: "html",
				Body: doc.Meta().Abstract,
			},
			Content: &atom.Text{
				Type: "html",
				Body: string(html),
			},
		}
		if author := doc.Meta().Author; author != "" {
			e.Author = &atom.Person{Name: author}
		}
		feed.Entry = append(feed.Entry, e)
	}

	b, err := xml.Marshal(feed)
	if err != nil {
		return nil, fmt.Errorf("encoding feed: %v", err)
	}
	return b, nil
}
