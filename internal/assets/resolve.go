package assets

import "strings"

// Outcome classifies what a request path resolved to.
type Outcome int

const (
	// Miss means no asset applies; the caller responds 404.
	Miss Outcome = iota
	// Hit means the path matched a bundled asset exactly.
	Hit
	// Fallback means the path is a client-side route and the root
	// document is served in place of the missing key.
	Fallback
)

// String returns the outcome name, used for logging and metrics labels.
func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Fallback:
		return "fallback"
	default:
		return "miss"
	}
}

// Resolution is the per-request result of resolving a path. Asset bytes
// are borrowed from the registry, never copied.
type Resolution struct {
	Outcome     Outcome
	Asset       *Asset
	ContentType string

	// BundleMissing is set on a Miss that would have fallen back to the
	// root document had the bundle been built into the binary. It lets
	// the response layer distinguish "this one file is missing" from
	// "the whole interface was never built".
	BundleMissing bool
}

// rootDocument is the SPA entry point inside the bundle, relative to the
// namespace prefix.
const rootDocument = "index.html"

// Resolver decides between an exact asset hit, SPA fallback to the root
// document, and a miss. It is purely functional over the immutable
// registry and safe for concurrent use.
type Resolver struct {
	reg       *Registry
	uiPrefix  string
	apiPrefix string
	rootKey   string
}

// NewResolver returns a resolver serving assets under uiPrefix. Paths
// under apiPrefix are never eligible for SPA fallback, so genuine API
// 404s are not masked as HTML pages.
func NewResolver(reg *Registry, uiPrefix, apiPrefix string) *Resolver {
	return &Resolver{
		reg:       reg,
		uiPrefix:  strings.TrimSuffix(uiPrefix, "/"),
		apiPrefix: strings.TrimSuffix(apiPrefix, "/"),
		rootKey:   strings.TrimSuffix(uiPrefix, "/") + "/" + rootDocument,
	}
}

// Resolve maps a raw request path to a resolution. First match wins:
// exact registry hit, then SPA fallback for extension-less non-API
// routes, then miss. Miss is a normal terminal outcome, not an error.
func (r *Resolver) Resolve(requestPath string) Resolution {
	key := Normalize(r.uiPrefix, requestPath)

	if a, ok := r.reg.Lookup(key); ok {
		return Resolution{Outcome: Hit, Asset: a, ContentType: TypeByPath(key)}
	}

	if !r.fallbackEligible(requestPath, key) {
		return Resolution{Outcome: Miss}
	}

	if root, ok := r.reg.Lookup(r.rootKey); ok {
		// The root document's routing behavior may change between
		// deployments, so it is always served as fresh HTML whatever
		// the requested key looked like.
		return Resolution{Outcome: Fallback, Asset: root, ContentType: "text/html; charset=utf-8"}
	}
	return Resolution{Outcome: Miss, BundleMissing: true}
}

// fallbackEligible implements the SPA heuristic: a missed key falls back
// to the root document only when the request denotes a client-side route
// rather than a concrete file. The dot test is segment-local, so a
// versioned directory route like /admin/v2.0/page stays eligible while
// /admin/logo.png does not.
func (r *Resolver) fallbackEligible(requestPath, key string) bool {
	if requestPath == r.apiPrefix || strings.HasPrefix(requestPath, r.apiPrefix+"/") {
		return false
	}
	if strings.HasSuffix(requestPath, "/") {
		return true
	}
	last := key[strings.LastIndexByte(key, '/')+1:]
	return !strings.Contains(last, ".")
}

// Healthy reports whether the root document is present. A missing root
// document means the bundle was never built into the binary and the
// whole interface is unavailable.
func (r *Resolver) Healthy() bool {
	return r.reg.Contains(r.rootKey)
}

// RootKey returns the registry key of the SPA root document.
func (r *Resolver) RootKey() string {
	return r.rootKey
}

// Registry exposes the underlying asset table for introspection.
func (r *Resolver) Registry() *Registry {
	return r.reg
}
