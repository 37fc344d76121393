package site

import (
	"cmp"
	"fmt"
	"html/template"
	"slices"
	"time"

	"znkr.io/patchview/generator/edits"
)

// Site is an in-memory representation of a set of reviews.
type Site struct {
	templates *template.Template
	docs      map[string]Doc
	opts      Options
}

// Options control how a site is rendered.
type Options struct {
	Title           string          // Title of the site, used for the feed
	BaseURL         string          // URL the site is served at, used for the feed
	Context         int             // Default number of context lines for patches
	Algorithm       edits.Algorithm // Default diff algorithm for patches
	IndentHeuristic bool            // Whether to apply the indent heuristic to patches
}

// DefaultOptions returns the options used if nothing else is configured.
func DefaultOptions() Options {
	return Options{
		Title:   "Reviews",
		BaseURL: "http://localhost:8080",
		Context: 3,
	}
}

// Doc is a single document of the site, that is anything that can be served as a static file.
type Doc struct {
	path            string
	dir             string // directory of the file, used as a relative directory to load related files
	mime            string
	meta            *Metadata
	data            []byte
	contentRenderer renderer
	pageRenderer    renderer
}

type Metadata struct {
	Title     string
	Published time.Time
	Updated   time.Time
	Abstract  string
	Author    string
	Template  string
	Context   *int // Number of context lines for the patches of the document, if set
	TOC       bool
}

// Doc returns the document for the given path, or nil if the document cannot be found.
func (s *Site) Doc(path string) *Doc {
	d, ok := s.docs[path]
	if !ok {
		return nil
	}
	return &d
}

// Reviews returns all published documents, newest first.
func (s *Site) Reviews() []*Doc {
	var ret []*Doc
	for _, d := range s.docs {
		if d.meta == nil || d.meta.Published.IsZero() {
			continue
		}
		ret = append(ret, &d)
	}
	slices.SortFunc(ret, func(a, b *Doc) int {
		return cmp.Or(b.meta.Published.Compare(a.meta.Published), cmp.Compare(a.path, b.path))
	})
	return ret
}

func (s *Site) AllDocs() []*Doc {
	var ret []*Doc
	for _, d := range s.docs {
		ret = append(ret, &d)
	}
	slices.SortFunc(ret, func(a, b *Doc) int {
		return cmp.Compare(a.Path(), b.Path())
	})
	return ret
}

func (s *Site) Options() Options { return s.opts }

func (s *Site) RenderContent(d *Doc) ([]byte, error) {
	b, err := d.contentRenderer.render(s, d, d.data)
	if err != nil {
		return nil, fmt.Errorf("rendering content of %s: %v", d.path, err)
	}
	return b, nil
}

// RenderPage renders doc as a page.
func (s *Site) RenderPage(d *Doc) ([]byte, error) {
	b, err := d.pageRenderer.render(s, d, d.data)
	if err != nil {
		return nil, fmt.Errorf("rendering page for %s: %v", d.path, err)
	}
	return b, nil
}

func (d *Doc) MimeType() string { return d.mime }
func (d *Doc) Meta() *Metadata  { return d.meta }
func (d *Doc) Path() string     { return d.path }
func (d *Doc) Dir() string      { return d.dir }
