package assets

import "strings"

// Normalize maps an inbound request path into the registry key space by
// prepending prefix when it is absent. Traversal sequences are not
// resolved here: the registry holds only pre-enumerated keys and no
// filesystem path is ever dereferenced at request time, so a `..` in the
// input can at worst miss.
func Normalize(prefix, requestPath string) string {
	if !strings.HasPrefix(requestPath, "/") {
		requestPath = "/" + requestPath
	}
	if requestPath == prefix || strings.HasPrefix(requestPath, prefix+"/") {
		return requestPath
	}
	return prefix + requestPath
}
