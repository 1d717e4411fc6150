// Package pathstr resolves user-supplied path strings against the file they
// appear in, keeping the result inside the file's sandbox.
package pathstr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/purpl3F0x/typst/pkg/diag"
	"github.com/purpl3F0x/typst/pkg/intern"
	"github.com/purpl3F0x/typst/pkg/vpath"
)

// PathStr is a path string as written by a user.
type PathStr string

// Resolve resolves s relative to the file at within. s may be absolute, in
// which case it starts at within's root; otherwise it is taken from within's
// parent directory. Errors are *diag.HintedString values.
func (s PathStr) Resolve(within vpath.VirtualPath) (vpath.VirtualPath, error) {
	base := within
	if parent, ok := within.Parent(); ok {
		base = parent
	}

	resolved, err := base.Join(string(s))
	if err != nil {
		return vpath.VirtualPath{}, formatPathError(err, within.Root(), string(s))
	}

	return resolved, nil
}

// ResolveID is like Resolve but takes the file as an interned identity. A zero
// ID means there is no file to resolve against.
func (s PathStr) ResolveID(within vpath.FileID, files intern.Resolver[vpath.VirtualPath, uint16]) (vpath.VirtualPath, error) {
	if within.IsZero() {
		return vpath.VirtualPath{}, diag.New("cannot access file system from here")
	}

	return s.Resolve(files.Resolve(within))
}

func formatPathError(err error, root vpath.VirtualRoot, path string) *diag.HintedString {
	switch {
	case errors.Is(err, vpath.ErrBackslash):
		return diag.New(
			"path must not contain a backslash",
			"use forward slashes instead: `"+strconv.Quote(strings.ReplaceAll(path, `\`, "/"))+"`",
			"in earlier Typst versions, backslashes indicated path separators on Windows",
			"this behavior is no longer supported as it is not portable",
		)
	case errors.Is(err, vpath.ErrEscapes):
		kind := root.Kind()

		d := diag.Errorf("path would escape the %s root", kind).
			Hint(fmt.Sprintf("cannot access files outside of the %s sandbox", kind))
		if root.IsProject() {
			d.Hint("you can adjust the project root with the --root argument")
		}

		return d
	default:
		return diag.New(err.Error())
	}
}
