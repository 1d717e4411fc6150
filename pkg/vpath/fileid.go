package vpath

import "github.com/purpl3F0x/typst/pkg/intern"

// FileID is the interned identity of a VirtualPath. The narrow index keeps
// IDs at two bytes; a single run touches far fewer than 65535 files.
type FileID = intern.ID[VirtualPath, uint16]

var files = intern.Bind[VirtualPath, uint16](intern.Default())

// Files returns the binding that issues FileIDs.
func Files() *intern.Binding[VirtualPath, uint16] {
	return files
}

// Intern returns the FileID of p. Equal paths share one ID.
func (p VirtualPath) Intern() FileID {
	return files.Intern(p)
}

// Resolve returns the path behind id.
func Resolve(id FileID) VirtualPath {
	return files.Get(id)
}

// UniqueFileID returns a FileID for p that is distinct from every other
// FileID, including ones for an equal path. Detached sources use it so they
// never alias a real file.
func UniqueFileID(p VirtualPath) FileID {
	return files.Unique(p)
}
