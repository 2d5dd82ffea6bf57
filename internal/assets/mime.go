package assets

import "strings"

// mimeTypes maps lower-cased file extensions (no leading dot) to the
// Content-Type the asset is served with. The table is fixed: asset types
// are derived from the extension alone, never sniffed from content, and
// unknown extensions fall back to application/octet-stream.
var mimeTypes = map[string]string{
	"html":  "text/html; charset=utf-8",
	"css":   "text/css; charset=utf-8",
	"js":    "application/javascript; charset=utf-8",
	"json":  "application/json",
	"ico":   "image/x-icon",
	"png":   "image/png",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"gif":   "image/gif",
	"svg":   "image/svg+xml",
	"webp":  "image/webp",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"eot":   "application/vnd.ms-fontobject",
	"otf":   "font/otf",
}

// fallbackMIME is served for paths without a recognized extension.
const fallbackMIME = "application/octet-stream"

// TypeByPath returns the MIME type for the extension of p, matching
// case-insensitively. It never fails and never inspects file contents.
func TypeByPath(p string) string {
	dot := strings.LastIndexByte(p, '.')
	if dot < 0 || dot == len(p)-1 {
		return fallbackMIME
	}
	if t, ok := mimeTypes[strings.ToLower(p[dot+1:])]; ok {
		return t
	}
	return fallbackMIME
}
