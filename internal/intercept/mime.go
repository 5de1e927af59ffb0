package intercept

import (
	"path"
	"strings"
)

// DefaultMIME is used for unknown extensions.
const DefaultMIME = "application/octet-stream"

var mimeTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".htm":  "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".mjs":  "text/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".ico":  "image/x-icon",
	".txt":  "text/plain; charset=utf-8",
	".wasm": "application/wasm",
}

// DetectMIME maps a path's extension, case-insensitively, to a content type.
func DetectMIME(p string) string {
	if t, ok := mimeTypes[strings.ToLower(path.Ext(p))]; ok {
		return t
	}
	return DefaultMIME
}

// NormalizeRequestPath maps "" and "/" to "/index.html" and appends
// "index.html" to paths ending in a slash.
func NormalizeRequestPath(p string) string {
	if p == "" || p == "/" {
		return "/index.html"
	}
	if strings.HasSuffix(p, "/") {
		return p + "index.html"
	}
	return p
}
