package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	oldMain = "package main\n\nfunc main() {\n\tprintln(\"hello\")\n}\n"
	newMain = "package main\n\nfunc main() {\n\tprintln(\"hello, world\")\n}\n"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func loadSite(t *testing.T, files map[string]string) *Site {
	t.Helper()
	s, err := Load(writeFiles(t, files), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLoadPaths(t *testing.T) {
	s := loadSite(t, map[string]string{
		"index.md":                  "# Reviews\n",
		"parser.md":                 "# Parser\n",
		"reviews/lexer/index.md":    "# Lexer\n",
		"reviews/lexer/old/main.xyzzy": oldMain,
		".git/config":               "ignored",
		"_drafts/wip.md":            "# Ignored\n",
	})

	var got []string
	for _, d := range s.AllDocs() {
		got = append(got, d.Path()+" "+d.MimeType())
	}
	want := []string{
		"/ text/html;charset=UTF-8",
		"/feed.atom application/atom+xml;charset=utf-8",
		"/parser text/html;charset=UTF-8",
		"/reviews/lexer text/html;charset=UTF-8",
		"/reviews/lexer/old/main.xyzzy text/plain;charset=utf-8",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loaded docs are different (-want +got):\n%s", diff)
	}
	if s.Doc("/missing") != nil {
		t.Errorf("Doc(\"/missing\") found a document")
	}
}

func TestRenderPatch(t *testing.T) {
	s := loadSite(t, map[string]string{
		"review/index.md": `# Greeting
:published: 2025-01-02

Say hello to everyone.

<!--#patch a="old/main.go" b="new/main.go" -->
`,
		"review/old/main.go": oldMain,
		"review/new/main.go": newMain,
	})

	d := s.Doc("/review")
	if d == nil {
		t.Fatal("review not found")
	}
	b, err := s.RenderPage(d)
	if err != nil {
		t.Fatal(err)
	}
	page := string(b)
	for _, want := range []string{
		"<title>Greeting - Reviews</title>",
		"<p>Say hello to everyone.</p>",
		`<span class="file">new/main.go</span>`,
		`<span class="added">+1</span>`,
		`<span class="deleted">-1</span>`,
		`<tr class="modified">`,
		"println(&#34;hello, world&#34;)",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("rendered page doesn't contain %q:\n%s", want, page)
		}
	}
	if strings.Contains(page, "<!--#patch") {
		t.Errorf("rendered page still contains the directive:\n%s", page)
	}
}

func TestPatchContext(t *testing.T) {
	var a, b strings.Builder
	for i := range 20 {
		fmt.Fprintf(&a, "line %d\n", i)
		if i == 10 {
			fmt.Fprintf(&b, "changed %d\n", i)
		} else {
			fmt.Fprintf(&b, "line %d\n", i)
		}
	}

	tests := []struct {
		name      string
		doc       string
		wantSkips string
	}{
		{
			name:      "site_default",
			doc:       "# T\n\n<!--#patch a=\"a.txt\" b=\"b.txt\" -->\n",
			wantSkips: "7 unchanged lines",
		},
		{
			name:      "metadata",
			doc:       "# T\n:context: 1\n\n<!--#patch a=\"a.txt\" b=\"b.txt\" -->\n",
			wantSkips: "9 unchanged lines",
		},
		{
			name:      "directive",
			doc:       "# T\n:context: 1\n\n<!--#patch a=\"a.txt\" b=\"b.txt\" context=\"5\" -->\n",
			wantSkips: "5 unchanged lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadSite(t, map[string]string{
				"index.md": tt.doc,
				"a.txt":    a.String(),
				"b.txt":    b.String(),
			})
			out, err := s.RenderContent(s.Doc("/"))
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(out), tt.wantSkips) {
				t.Errorf("rendered patch doesn't contain %q:\n%s", tt.wantSkips, out)
			}
		})
	}
}

func TestPatchWholeFile(t *testing.T) {
	s := loadSite(t, map[string]string{
		"index.md": "# T\n\n<!--#patch a=\"a.txt\" b=\"b.txt\" context=\"all\" -->\n",
		"a.txt":    "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n",
		"b.txt":    "1\n2\n3\n4\nfive\n6\n7\n8\n9\n10\n",
	})
	out, err := s.RenderContent(s.Doc("/"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "unchanged lines") {
		t.Errorf("whole file patch contains skipped lines:\n%s", out)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing_file", `<!--#patch a="missing.txt" b="b.txt" -->`},
		{"missing_attributes", `<!--#patch context="3" -->`},
		{"bad_context", `<!--#patch a="b.txt" b="b.txt" context="many" -->`},
		{"bad_algorithm", `<!--#patch a="b.txt" b="b.txt" algorithm="magic" -->`},
		{"unknown_directive", `<!--#include file="b.txt" -->`},
		{"syntax_error", `<!--#patch a=b.txt -->`},
		{"parent_directory", `<!--#patch a="../b.txt" b="b.txt" -->`},
		{"absolute_path", `<!--#patch a="/etc/passwd" b="b.txt" -->`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadSite(t, map[string]string{
				"index.md": "# T\n\n" + tt.doc + "\n",
				"b.txt":    "b\n",
			})
			if _, err := s.RenderPage(s.Doc("/")); err == nil {
				t.Errorf("RenderPage(...) didn't fail")
			}
		})
	}
}

func TestNewFile(t *testing.T) {
	s := loadSite(t, map[string]string{
		"index.md": "# T\n\n<!--#patch a=\"/dev/null\" b=\"b.txt\" -->\n",
		"b.txt":    "b\n",
	})
	out, err := s.RenderContent(s.Doc("/"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `<tr class="inserted">`) {
		t.Errorf("new file patch doesn't contain inserted line:\n%s", out)
	}
}

func TestReviewsAndFeed(t *testing.T) {
	s := loadSite(t, map[string]string{
		"first.md":  "# First\n:published: 2025-01-02\n:author: Jane\n\nfirst",
		"second.md": "# Second\n:published: 2025-02-03\n:summary: the second\n\nsecond",
		"draft.md":  "# Draft\n\ndraft",
	})

	var got []string
	for _, d := range s.Reviews() {
		got = append(got, d.Path())
	}
	if diff := cmp.Diff([]string{"/second", "/first"}, got); diff != "" {
		t.Errorf("Reviews() is different (-want +got):\n%s", diff)
	}

	b, err := s.RenderPage(s.Doc("/feed.atom"))
	if err != nil {
		t.Fatal(err)
	}
	feed := string(b)
	for _, want := range []string{
		"<title>Reviews</title>",
		`href="http://localhost:8080/second"`,
		"<name>Jane</name>",
		"the second",
		"2025-02-03T00:00:00",
	} {
		if !strings.Contains(feed, want) {
			t.Errorf("feed doesn't contain %q:\n%s", want, feed)
		}
	}
	if strings.Contains(feed, "Draft") {
		t.Errorf("feed contains unpublished document:\n%s", feed)
	}
}

func TestTemplateOverride(t *testing.T) {
	s := loadSite(t, map[string]string{
		"index.md":             "# T\n:template: plain\n\nbody",
		"templates/plain.html": "<plain>{{.Content}}</plain>",
	})
	b, err := s.RenderPage(s.Doc("/"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("<plain><p>body</p>\n</plain>", string(b)); diff != "" {
		t.Errorf("RenderPage(...) is different (-want +got):\n%s", diff)
	}
	if s.Doc("/templates/plain.html") != nil {
		t.Errorf("templates are served as documents")
	}
}

func TestTOC(t *testing.T) {
	s := loadSite(t, map[string]string{
		"index.md": "# T\n:toc: true\n\n## First\n\n## Second\n",
	})
	out, err := s.RenderContent(s.Doc("/"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Contents", `href="#first"`, `href="#second"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("rendered content doesn't contain %q:\n%s", want, out)
		}
	}
}
