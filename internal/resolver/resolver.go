// Package resolver maps request paths to files under a fixed root directory.
package resolver

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IndexFile is the file served for the root path.
const IndexFile = "index.html"

// htmlExt is appended to extensionless paths.
const htmlExt = ".html"

// Kind describes the outcome of a resolution.
type Kind int

const (
	// NotFound means no file under the root matches the request path.
	NotFound Kind = iota
	// Found means Name and Path point to an existing regular file.
	Found
	// Welcome means the root path was requested and no index file exists.
	Welcome
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Welcome:
		return "welcome"
	default:
		return "not_found"
	}
}

// Resolution is the result of resolving one request path.
type Resolution struct {
	// Kind is the resolution outcome.
	Kind Kind
	// Name is the slash-separated path relative to the root (empty unless Found).
	Name string
	// Path is the absolute filesystem path (empty unless Found).
	Path string
}

// Resolver resolves request paths against a root directory.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	root string
}

// New creates a Resolver for root. The root is made absolute when possible;
// it does not need to exist.
func New(root string) *Resolver {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Resolver{root: root}
}

// Root returns the absolute root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a URL path to a file under the root.
//
// The rules, in order:
//   - "/" serves index.html, or Welcome when it is absent
//   - paths ending in .html are looked up as-is
//   - paths whose final segment has no "." get ".html" appended
//   - anything else is looked up as-is
//
// Every lookup hits the filesystem. Paths that would leave the root,
// directories, and filesystem errors all resolve to NotFound.
func (r *Resolver) Resolve(urlPath string) Resolution {
	name, ok := cleanPath(urlPath)
	if !ok {
		return Resolution{Kind: NotFound}
	}

	if name == "" {
		if res := r.lookup(IndexFile); res.Kind == Found {
			return res
		}
		return Resolution{Kind: Welcome}
	}

	if strings.HasSuffix(name, htmlExt) {
		return r.lookup(name)
	}

	if !strings.Contains(path.Base(name), ".") {
		return r.lookup(name + htmlExt)
	}

	return r.lookup(name)
}

// Open opens a Found resolution for reading. The file is opened through
// the root so a file swapped for an escaping symlink after Resolve is refused.
func (r *Resolver) Open(res Resolution) (*os.File, error) {
	if res.Kind != Found {
		return nil, os.ErrNotExist
	}
	root, err := os.OpenRoot(r.root)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	return root.Open(filepath.FromSlash(res.Name))
}

func (r *Resolver) lookup(name string) Resolution {
	root, err := os.OpenRoot(r.root)
	if err != nil {
		return Resolution{Kind: NotFound}
	}
	defer root.Close()

	info, err := root.Stat(filepath.FromSlash(name))
	if err != nil || !info.Mode().IsRegular() {
		return Resolution{Kind: NotFound}
	}

	return Resolution{
		Kind: Found,
		Name: name,
		Path: filepath.Join(r.root, filepath.FromSlash(name)),
	}
}

// cleanPath turns a URL path into a root-relative slash path.
// It reports false for paths that contain ".." segments, NUL bytes or
// backslashes, or that are not local after cleaning.
func cleanPath(urlPath string) (string, bool) {
	if strings.ContainsAny(urlPath, "\x00\\") {
		return "", false
	}

	for _, seg := range strings.Split(urlPath, "/") {
		if seg == ".." {
			return "", false
		}
	}

	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return "", true
	}

	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", false
	}

	return name, true
}
