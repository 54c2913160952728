package main

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultContentType = "text/html"

var contentTypes = map[string]string{
	"html": "text/html",
	"gif":  "image/gif",
	"jpeg": "image/jpg",
	"png":  "image/png",
}

// ContentTypeFor maps an extension to a MIME type, falling back to
// text/html.
func ContentTypeFor(ext string, ok bool) string {
	if !ok {
		return defaultContentType
	}
	if ct, found := contentTypes[ext]; found {
		return ct
	}
	return defaultContentType
}

func extensionOf(uri string) (string, bool) {
	pos := strings.LastIndexByte(uri, '.')
	if pos == -1 {
		return "", false
	}
	return uri[pos+1:], true
}

// ResolveTarget joins the request URI to root. It returns nil when the
// request carried no resource.
func ResolveTarget(root string, req *Request) *Target {
	if req == nil || !req.Found {
		return nil
	}
	ext, ok := extensionOf(req.URI)
	path, escaped := joinUnderRoot(root, req.URI)
	return &Target{
		Resource:     servedRoot + req.URI,
		Path:         path,
		Extension:    ext,
		HasExtension: ok,
		Escaped:      escaped,
		OnDisk:       !escaped && statOK(path),
	}
}

func statOK(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func joinUnderRoot(root, uri string) (string, bool) {
	root = filepath.Clean(root)
	path := filepath.Join(root, filepath.FromSlash(uri))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path, true
	}
	return path, false
}

func (t *Target) ContentType() string {
	if t == nil {
		return defaultContentType
	}
	return ContentTypeFor(t.Extension, t.HasExtension)
}

// Exists reports whether the target may be served. It reflects the
// filesystem at resolve time so status and body always agree. Paths
// escaping the root never exist.
func (t *Target) Exists() bool {
	return t != nil && !t.Escaped && t.OnDisk
}
