package depselector

import "sort"

// DependencyGraph is the universe of packages a solve can draw from. It
// auto-vivifies: asking for a package by name always returns the same
// *Package identity, creating an empty (zero-version) one on first mention.
// A package with zero versions behaves, for solving purposes, as if it does
// not exist: its only admissible value is ABSENT.
type DependencyGraph struct {
	order []string
	pkgs  map[string]*Package
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{pkgs: make(map[string]*Package)}
}

// Package returns the package named name, creating it if this is the first
// time it has been mentioned. The returned pointer is stable: repeated
// calls with the same name return the same *Package.
func (g *DependencyGraph) Package(name string) *Package {
	if p, ok := g.pkgs[name]; ok {
		return p
	}
	p := &Package{name: name, graph: g}
	g.pkgs[name] = p
	g.order = append(g.order, name)
	return p
}

// Lookup returns the package named name without creating it, and reports
// whether it had been mentioned before.
func (g *DependencyGraph) Lookup(name string) (*Package, bool) {
	p, ok := g.pkgs[name]
	return p, ok
}

// Packages returns every package mentioned so far, in first-mention order.
func (g *DependencyGraph) Packages() []*Package {
	out := make([]*Package, len(g.order))
	for i, name := range g.order {
		out[i] = g.pkgs[name]
	}
	return out
}

// Package is a named dependency and the set of versions known to exist for
// it.
type Package struct {
	name     string
	graph    *DependencyGraph
	versions []*PackageVersion
}

// Name returns the package's name.
func (p *Package) Name() string { return p.name }

// Exists reports whether at least one version of p has been added to the
// graph.
func (p *Package) Exists() bool { return len(p.versions) > 0 }

// Versions returns every known version of p, ascending.
func (p *Package) Versions() []*PackageVersion {
	return p.versions
}

// AddVersion registers v as an existing version of p and returns the
// PackageVersion node for attaching dependencies. Versions are kept sorted
// ascending regardless of insertion order.
func (p *Package) AddVersion(v Version) *PackageVersion {
	if existing, ok := p.Version(v); ok {
		return existing
	}

	pv := &PackageVersion{pkg: p, version: v}
	idx := sort.Search(len(p.versions), func(i int) bool {
		return !p.versions[i].version.Less(v)
	})
	p.versions = append(p.versions, nil)
	copy(p.versions[idx+1:], p.versions[idx:])
	p.versions[idx] = pv
	return pv
}

// Version looks up the PackageVersion matching v, if any.
func (p *Package) Version(v Version) (*PackageVersion, bool) {
	for _, pv := range p.versions {
		if pv.version.Equal(v) {
			return pv, true
		}
	}
	return nil, false
}

// PackageVersion is one concrete, existing version of a Package, together
// with the dependencies it declares on other packages.
type PackageVersion struct {
	pkg     *Package
	version Version
	deps    []Dependency
}

// Package returns the package this version belongs to.
func (pv *PackageVersion) Package() *Package { return pv.pkg }

// Version returns the concrete version.
func (pv *PackageVersion) Version() Version { return pv.version }

// DependsOn records that pv requires target at a version satisfying c.
// Calling it more than once for the same target merges the constraints by
// intersection.
func (pv *PackageVersion) DependsOn(target *Package, c VersionConstraint) *PackageVersion {
	for i, d := range pv.deps {
		if d.Target == target {
			pv.deps[i].Constraint = d.Constraint.Intersect(c)
			return pv
		}
	}
	pv.deps = append(pv.deps, Dependency{Target: target, Constraint: c})
	return pv
}

// Dependencies returns the dependencies declared by pv, in declaration
// order.
func (pv *PackageVersion) Dependencies() []Dependency {
	return pv.deps
}

// Dependency is an edge from a PackageVersion to another Package, narrowed
// by a VersionConstraint.
type Dependency struct {
	Target     *Package
	Constraint VersionConstraint
}

// SolutionConstraint is a top-level requirement supplied by the caller of
// find_solution: package must be present in the solution, and if Constraint
// is non-zero, at a version it admits.
type SolutionConstraint struct {
	Package    *Package
	Constraint VersionConstraint
}
