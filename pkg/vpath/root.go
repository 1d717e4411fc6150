package vpath

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPackageSpec is returned by ParsePackageSpec.
var ErrInvalidPackageSpec = errors.New("invalid package specification")

// PackageSpec identifies a versioned package, e.g. @preview/example:0.1.0.
type PackageSpec struct {
	Namespace string
	Name      string
	Version   string
}

// ParsePackageSpec parses the @namespace/name:version form.
func ParsePackageSpec(s string) (PackageSpec, error) {
	rest, ok := strings.CutPrefix(s, "@")
	if !ok {
		return PackageSpec{}, fmt.Errorf("%w: %q must start with @", ErrInvalidPackageSpec, s)
	}

	namespace, rest, ok := strings.Cut(rest, "/")
	if !ok || namespace == "" {
		return PackageSpec{}, fmt.Errorf("%w: %q is missing a namespace", ErrInvalidPackageSpec, s)
	}

	name, version, ok := strings.Cut(rest, ":")
	if !ok || name == "" || version == "" {
		return PackageSpec{}, fmt.Errorf("%w: %q must look like @namespace/name:version", ErrInvalidPackageSpec, s)
	}

	return PackageSpec{Namespace: namespace, Name: name, Version: version}, nil
}

func (p PackageSpec) String() string {
	return "@" + p.Namespace + "/" + p.Name + ":" + p.Version
}

// VirtualRoot is the sandbox a VirtualPath lives in: either the project or
// one package.
type VirtualRoot struct {
	pkg       PackageSpec
	isPackage bool
}

// Project returns the project root.
func Project() VirtualRoot {
	return VirtualRoot{}
}

// Package returns the root of the given package.
func Package(spec PackageSpec) VirtualRoot {
	return VirtualRoot{pkg: spec, isPackage: true}
}

// IsProject reports whether r is the project root.
func (r VirtualRoot) IsProject() bool {
	return !r.isPackage
}

// Package returns the package spec when r is a package root.
func (r VirtualRoot) Package() (PackageSpec, bool) {
	return r.pkg, r.isPackage
}

// Kind returns "project" or "package".
func (r VirtualRoot) Kind() string {
	if r.isPackage {
		return "package"
	}

	return "project"
}

func (r VirtualRoot) String() string {
	if r.isPackage {
		return r.pkg.String()
	}

	return "project"
}
