// Package pack writes a rendered site into a tar archive that can be unpacked into the document
// root of any static web server.
package pack

import (
	"archive/tar"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"

	"znkr.io/patchview/generator/site"
)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]xml$"), xml.Minify)
	return m
}

// PackFile renders s and writes it to a tar archive named filename.
func PackFile(filename string, s *site.Site) error {
	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening file: %v", err)
	}
	if err := Pack(file, s); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Pack renders all documents of s and writes them as a tar archive to w. Documents with a HTML, CSS,
// SVG, XML or JavaScript mime type are minified.
func Pack(w io.Writer, s *site.Site) error {
	minifier := newMinifier()
	tw := tar.NewWriter(w)
	dirs := make(map[string]bool)

	for _, d := range s.AllDocs() {
		b, err := s.RenderPage(d)
		if err != nil {
			return err
		}

		mt, _, err := mime.ParseMediaType(d.MimeType())
		if err != nil {
			return fmt.Errorf("invalid mime type of %s: %v", d.Path(), err)
		}

		switch mt {
		case "text/html", "text/css", "image/svg+xml", "application/atom+xml", "text/javascript":
			b, err = minifier.Bytes(mt, b)
			if err != nil {
				return fmt.Errorf("minification failed for %s: %v", d.Path(), err)
			}
		}

		name := fileName(d.Path(), mt)
		if err := writeDirs(tw, dirs, path.Dir(name)); err != nil {
			return err
		}

		hdr := &tar.Header{
			Name:     "./" + name,
			Typeflag: tar.TypeReg,
			Mode:     int64(0644),
			Size:     int64(len(b)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("writing header: %v", err)
		}
		if _, err := tw.Write(b); err != nil {
			return fmt.Errorf("writing body: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("writing archive: %v", err)
	}
	return nil
}

// fileName returns the name of the file in the archive that serves the document at p.
func fileName(p, mimeType string) string {
	switch {
	case p == "/":
		p = "index.html"
	case mimeType == "text/html" && path.Ext(p) == "":
		p += "/index.html"
	}
	return strings.TrimPrefix(p, "/")
}

// writeDirs writes directory entries for dir and all its parents that have not been written yet.
func writeDirs(tw *tar.Writer, written map[string]bool, dir string) error {
	if written[dir] {
		return nil
	}
	if dir != "." {
		if err := writeDirs(tw, written, path.Dir(dir)); err != nil {
			return err
		}
	}
	name := "./" + dir + "/"
	if dir == "." {
		name = "./"
	}
	hdr := &tar.Header{
		Name:     name,
		Typeflag: tar.TypeDir,
		Mode:     int64(0755),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header: %v", err)
	}
	written[dir] = true
	return nil
}
