package site

import (
	"cmp"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates
var builtinTemplates embed.FS

// Load loads a site from the directory dir. Templates in dir/templates replace the builtin
// templates of the same name.
func Load(dir string, opts Options) (*Site, error) {
	templates := template.New("")
	if err := loadTemplates(templates, builtinTemplates, "templates"); err != nil {
		return nil, fmt.Errorf("loading builtin templates: %v", err)
	}
	tdir := filepath.Join(dir, "templates")
	switch _, err := os.Stat(tdir); {
	case err == nil:
		if err := loadTemplates(templates, os.DirFS(tdir), "."); err != nil {
			return nil, fmt.Errorf("loading templates: %v", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("loading templates: %v", err)
	}

	docs, err := loadDocs(dir, templates)
	if err != nil {
		return nil, err
	}

	docs["/feed.atom"] = Doc{
		path: "/feed.atom",
		mime: "application/atom+xml;charset=utf-8",
		meta: &Metadata{
			Title: opts.Title,
		},
		contentRenderer: &passthroughRenderer{},
		pageRenderer:    &feedRenderer{},
	}

	return &Site{
		docs:      docs,
		templates: templates,
		opts:      opts,
	}, nil
}

func loadTemplates(root *template.Template, fsys fs.FS, dir string) error {
	return fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".html") {
			return err
		}

		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path, ".html")
		if dir != "." {
			name = strings.TrimPrefix(name, dir+"/")
		}
		if _, err = root.New(name).Parse(string(b)); err != nil {
			return err
		}
		return nil
	})
}

// Hidden reports whether the file or directory name is ignored when loading a site.
func Hidden(name string) bool {
	return len(name) > 1 && (name[0] == '.' || name[0] == '_')
}

func loadDocs(dir string, templates *template.Template) (map[string]Doc, error) {
	dir = filepath.Clean(dir)
	docs := make(map[string]Doc)
	err := filepath.WalkDir(dir, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if fpath != dir && (Hidden(d.Name()) || fpath == filepath.Join(dir, "templates")) {
				return filepath.SkipDir
			}
			return nil
		}
		if Hidden(d.Name()) {
			return nil
		}

		doc := Doc{
			dir:             filepath.Dir(fpath),
			contentRenderer: &passthroughRenderer{},
			pageRenderer:    &passthroughRenderer{},
		}

		meta, data, err := readFile(fpath)
		if err != nil {
			return fmt.Errorf("reading file: %v", err)
		}
		doc.meta = meta
		doc.data = data

		rel, err := filepath.Rel(dir, fpath)
		if err != nil {
			return err
		}
		path := "/" + filepath.ToSlash(rel)
		pdir, base := filepath.Split(path)
		ext := filepath.Ext(base)

		switch ext {
		case ".md":
			if p := strings.TrimSuffix(base, ext); p == "index" {
				if pdir == "/" {
					path = pdir
				} else {
					path = pdir[:len(pdir)-1]
				}
			} else {
				path = pdir + p
			}
			doc.mime = "text/html;charset=UTF-8"
			doc.contentRenderer = chain(&markdownRenderer{}, &directivesRenderer{})

			tname := "page"
			if doc.meta != nil {
				tname = cmp.Or(doc.meta.Template, tname)
			}
			t := templates.Lookup(tname)
			if t == nil {
				return fmt.Errorf("template not found %s", tname)
			}
			doc.pageRenderer = chain(doc.contentRenderer, &templateRenderer{t})
		default:
			doc.mime = cmp.Or(mime.TypeByExtension(ext), "text/plain;charset=utf-8")
		}

		doc.path = path
		docs[path] = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading docs: %v", err)
	}
	return docs, nil
}

func readFile(file string) (*Metadata, []byte, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("reading file: %v", err)
	}

	if strings.HasSuffix(file, ".md") {
		var meta *Metadata
		meta, data, err = parseMetadata(data)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing metadata: %v", err)
		}
		return meta, data, nil
	}
	return nil, data, nil
}
