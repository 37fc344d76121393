package server

import (
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"znkr.io/patchview/generator/site"
)

type handler struct {
	site atomic.Pointer[site.Site]
}

func newHandler(s *site.Site) *handler {
	h := &handler{}
	h.site.Store(s)
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s := h.site.Load()

	switch req.Method {
	case http.MethodGet, http.MethodHead:
	default:
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := req.URL.EscapedPath()
	doc := s.Doc(path)
	if doc == nil && path != "/" && strings.HasSuffix(path, "/") {
		// Reviews are served without trailing slash.
		if s.Doc(strings.TrimRight(path, "/")) != nil {
			http.Redirect(w, req, strings.TrimRight(path, "/"), http.StatusMovedPermanently)
			return
		}
	}
	if doc == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	b, err := s.RenderPage(doc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		log.Printf("failed to serve %v: %v", path, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", doc.MimeType())
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(b); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
