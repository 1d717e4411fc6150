// Package vpath implements sandboxed virtual paths and their interned
// identities.
//
// A VirtualPath is always rooted and normalized within its VirtualRoot, and
// no operation can navigate above that root.
package vpath

import (
	"errors"
	"fmt"
	pathpkg "path"
	"strings"
)

// Sentinel path errors.
var (
	// ErrEscapes is returned when a path navigates above its root.
	ErrEscapes = errors.New("path escapes root")
	// ErrBackslash is returned for paths containing a backslash.
	ErrBackslash = errors.New("path contains a backslash")
)

// PathError records the path that failed and why.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%q: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// VirtualPath is a normalized, rooted path inside a VirtualRoot. The zero
// value is the project root directory.
type VirtualPath struct {
	root VirtualRoot
	path string // Components joined by "/", without the leading slash.
}

// New creates a path in root. Relative paths are taken from the root
// directory.
func New(root VirtualRoot, path string) (VirtualPath, error) {
	return VirtualPath{root: root}.Join(path)
}

// Join resolves s against p, which is treated as a directory. An absolute s
// starts over at the root. Empty segments and "." are skipped.
func (p VirtualPath) Join(s string) (VirtualPath, error) {
	if strings.ContainsRune(s, '\\') {
		return VirtualPath{}, &PathError{Path: s, Err: ErrBackslash}
	}

	var parts []string
	if !strings.HasPrefix(s, "/") && p.path != "" {
		parts = strings.Split(p.path, "/")
	}

	for seg := range strings.SplitSeq(s, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(parts) == 0 {
				return VirtualPath{}, &PathError{Path: s, Err: ErrEscapes}
			}

			parts = parts[:len(parts)-1]
		default:
			parts = append(parts, seg)
		}
	}

	return VirtualPath{root: p.root, path: strings.Join(parts, "/")}, nil
}

// Parent returns the directory containing p. The root has no parent.
func (p VirtualPath) Parent() (VirtualPath, bool) {
	if p.path == "" {
		return VirtualPath{}, false
	}

	idx := strings.LastIndexByte(p.path, '/')
	if idx < 0 {
		return VirtualPath{root: p.root}, true
	}

	return VirtualPath{root: p.root, path: p.path[:idx]}, true
}

// IsRoot reports whether p is the root directory of its sandbox.
func (p VirtualPath) IsRoot() bool {
	return p.path == ""
}

// Root returns the sandbox p lives in.
func (p VirtualPath) Root() VirtualRoot {
	return p.root
}

// Get returns the rooted path, e.g. "/src/main.typ".
func (p VirtualPath) Get() string {
	return "/" + p.path
}

// FileName returns the last component, or "" for the root.
func (p VirtualPath) FileName() string {
	return p.path[strings.LastIndexByte(p.path, '/')+1:]
}

// Extension returns the file name extension including the dot.
func (p VirtualPath) Extension() string {
	return pathpkg.Ext(p.FileName())
}

// String renders the path with its package prefix, if any.
func (p VirtualPath) String() string {
	if spec, ok := p.root.Package(); ok {
		return spec.String() + p.Get()
	}

	return p.Get()
}
