package pathstr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purpl3F0x/typst/pkg/diag"
	"github.com/purpl3F0x/typst/pkg/intern"
	"github.com/purpl3F0x/typst/pkg/pathstr"
	"github.com/purpl3F0x/typst/pkg/vpath"
)

func mustPath(t *testing.T, root vpath.VirtualRoot, p string) vpath.VirtualPath {
	t.Helper()

	vp, err := vpath.New(root, p)
	require.NoError(t, err)

	return vp
}

func TestResolve(t *testing.T) {
	t.Parallel()

	within := mustPath(t, vpath.Project(), "src/main.typ")

	tests := []struct {
		name     string
		input    string
		expected string
		errMsg   string
	}{
		{name: "sibling", input: "works.bib", expected: "/src/works.bib"},
		{name: "empty", input: "", expected: "/src"},
		{name: "dot", input: ".", expected: "/src"},
		{name: "parent", input: "..", expected: "/"},
		{name: "absolute", input: "/assets/logo.svg", expected: "/assets/logo.svg"},
		{name: "escape", input: "../..", errMsg: "path would escape the project root"},
		{name: "backslash", input: `a\b`, errMsg: "path must not contain a backslash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := pathstr.PathStr(tt.input).Resolve(within)
			if tt.errMsg != "" {
				require.EqualError(t, err, tt.errMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, mustPath(t, vpath.Project(), tt.expected), got)
		})
	}
}

func TestResolve_AtRoot(t *testing.T) {
	t.Parallel()

	root := mustPath(t, vpath.Project(), "/")

	got, err := pathstr.PathStr("a.typ").Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, "/a.typ", got.Get())

	_, err = pathstr.PathStr("..").Resolve(root)
	require.EqualError(t, err, "path would escape the project root")
}

func TestResolve_EscapeHints(t *testing.T) {
	t.Parallel()

	t.Run("project", func(t *testing.T) {
		t.Parallel()

		_, err := pathstr.PathStr("../..").Resolve(mustPath(t, vpath.Project(), "main.typ"))

		var d *diag.HintedString

		require.ErrorAs(t, err, &d)
		assert.Equal(t, []string{
			"cannot access files outside of the project sandbox",
			"you can adjust the project root with the --root argument",
		}, d.Hints)
	})

	t.Run("package", func(t *testing.T) {
		t.Parallel()

		root := vpath.Package(vpath.PackageSpec{Namespace: "preview", Name: "cetz", Version: "0.3.1"})

		_, err := pathstr.PathStr("../../x").Resolve(mustPath(t, root, "lib/draw.typ"))

		var d *diag.HintedString

		require.ErrorAs(t, err, &d)
		assert.Equal(t, "path would escape the package root", d.Message)
		assert.Equal(t, []string{"cannot access files outside of the package sandbox"}, d.Hints)
	})
}

func TestResolve_BackslashHints(t *testing.T) {
	t.Parallel()

	roots := []vpath.VirtualRoot{
		vpath.Project(),
		vpath.Package(vpath.PackageSpec{Namespace: "local", Name: "mine", Version: "1.0.0"}),
	}

	for _, root := range roots {
		t.Run(root.Kind(), func(t *testing.T) {
			t.Parallel()

			_, err := pathstr.PathStr(`img\logo.png`).Resolve(mustPath(t, root, "main.typ"))

			var d *diag.HintedString

			require.ErrorAs(t, err, &d)
			assert.Equal(t, "path must not contain a backslash", d.Message)
			assert.Equal(t, []string{
				"use forward slashes instead: `\"img/logo.png\"`",
				"in earlier Typst versions, backslashes indicated path separators on Windows",
				"this behavior is no longer supported as it is not portable",
			}, d.Hints)
		})
	}
}

func TestResolveID(t *testing.T) {
	t.Parallel()

	files := intern.Of[vpath.VirtualPath, uint16](intern.NewRegistry())
	within := files.Intern(mustPath(t, vpath.Project(), "chapters/intro.typ"))

	got, err := pathstr.PathStr("figure.png").ResolveID(within, files)
	require.NoError(t, err)
	assert.Equal(t, "/chapters/figure.png", got.Get())

	_, err = pathstr.PathStr("figure.png").ResolveID(vpath.FileID{}, files)
	require.EqualError(t, err, "cannot access file system from here")
}
