package workload

import (
	"fmt"

	"github.com/purpl3F0x/typst/pkg/vpath"
)

// Symbol is an identifier-like string interned into a wide table.
type Symbol string

const filesPerChapter = 16

// filePaths returns n distinct source file paths under root.
func filePaths(root vpath.VirtualRoot, n int) ([]vpath.VirtualPath, error) {
	paths := make([]vpath.VirtualPath, n)

	for i := range n {
		p, err := vpath.New(root, fmt.Sprintf("chapters/%03d/part-%02d.typ", i/filesPerChapter, i%filesPerChapter))
		if err != nil {
			return nil, fmt.Errorf("generate path %d: %w", i, err)
		}

		paths[i] = p
	}

	return paths, nil
}

// symbols returns n distinct symbols.
func symbols(n int) []Symbol {
	out := make([]Symbol, n)

	for i := range n {
		out[i] = Symbol(fmt.Sprintf("sym_%d", i))
	}

	return out
}
