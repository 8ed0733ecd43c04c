package depselector

// variable is one CSP variable in a built problem: the domain of package
// pkg, where index i in [0, len(versions)) denotes versions[i] and index
// len(versions) denotes ABSENT.
type variable struct {
	pkg      *Package
	versions []*PackageVersion
	topLevel bool
}

func (vr *variable) absentValue() int { return len(vr.versions) }
func (vr *variable) size() int        { return len(vr.versions) + 1 }

// edge is a compiled dependency implication: whenever variable `from` is
// pinned to value `val` (a concrete version, never ABSENT), variable `to`
// must take a value in `allowed` (which never contains to's ABSENT value,
// since a selected dependency can never be satisfied by the dependency's
// own absence).
type edge struct {
	from, val int
	to        int
	allowed   bitset
}

// restriction is an initial, unconditional narrowing of a variable's domain
// applied before any search begins: either a top-level SolutionConstraint
// (which also forbids ABSENT) or a valid_packages exclusion (which forces
// ABSENT).
type restriction struct {
	v       int
	allowed bitset
}

// problem is a fully compiled CSP: one variable per reachable package, plus
// the dependency edges and initial restrictions needed to seed and
// propagate a solve.
type problem struct {
	graph *DependencyGraph

	vars      []*variable
	index     map[*Package]int
	edgesFrom [][]edge
	edgesTo   [][]edge

	topLevelVars []int // canonical order: as given in the SolutionConstraint list
	inducedVars  []int // BFS discovery order, excluding topLevelVars

	restrictions []restriction
}

func (p *problem) sizes() []int {
	sizes := make([]int, len(p.vars))
	for i, v := range p.vars {
		sizes[i] = v.size()
	}
	return sizes
}

// ProblemBuilder translates a DependencyGraph and a set of top-level
// SolutionConstraints into a compiled CSP.
type ProblemBuilder struct {
	graph *DependencyGraph
}

// NewProblemBuilder returns a builder drawing packages from graph.
func NewProblemBuilder(graph *DependencyGraph) *ProblemBuilder {
	return &ProblemBuilder{graph: graph}
}

// Validate checks constraints against the graph without building a CSP. It
// returns an *InvalidSolutionConstraintsError describing every violation
// found, or nil if every constraint is well-formed.
func (b *ProblemBuilder) Validate(constraints []SolutionConstraint) error {
	var bad InvalidSolutionConstraintsError

	for _, c := range constraints {
		if !c.Package.Exists() {
			bad.NonExistentPackages = append(bad.NonExistentPackages, c.Package.Name())
			continue
		}
		if c.Constraint.IsAny() {
			continue
		}
		if len(satisfyingVersionIndices(c.Package, c.Constraint)) == 0 {
			bad.ConstrainedToNoVersions = append(bad.ConstrainedToNoVersions, c.Package.Name())
		}
	}

	if bad.empty() {
		return nil
	}
	return &bad
}

func satisfyingVersionIndices(pkg *Package, c VersionConstraint) []int {
	var out []int
	for i, pv := range pkg.Versions() {
		if c.Includes(pv.Version()) {
			out = append(out, i)
		}
	}
	return out
}

// Build validates constraints, then compiles the CSP reachable from them. If
// validPackages is non-nil, any reachable package other than a top-level
// one whose name is absent from it is restricted to ABSENT only, rather than
// excluded from the graph; top-level packages are not restricted by it.
func (b *ProblemBuilder) Build(constraints []SolutionConstraint, validPackages map[string]bool) (*problem, error) {
	if err := b.Validate(constraints); err != nil {
		return nil, err
	}

	p := &problem{graph: b.graph, index: make(map[*Package]int)}

	var queue []*Package
	visited := make(map[*Package]bool)

	enqueue := func(pkg *Package) {
		if visited[pkg] {
			return
		}
		visited[pkg] = true
		queue = append(queue, pkg)
	}

	for _, c := range constraints {
		enqueue(c.Package)
	}

	topLevelSet := make(map[*Package]bool, len(constraints))
	for _, c := range constraints {
		topLevelSet[c.Package] = true
	}

	for i := 0; i < len(queue); i++ {
		pkg := queue[i]
		vr := &variable{pkg: pkg, versions: pkg.Versions(), topLevel: topLevelSet[pkg]}
		varID := len(p.vars)
		p.vars = append(p.vars, vr)
		p.index[pkg] = varID

		if vr.topLevel {
			p.topLevelVars = append(p.topLevelVars, varID)
		} else {
			p.inducedVars = append(p.inducedVars, varID)
		}

		for _, pv := range pkg.Versions() {
			for _, dep := range pv.Dependencies() {
				enqueue(dep.Target)
			}
		}
	}

	// topLevelVars was populated in BFS-visit order above, but the
	// canonical order for the objective function is the order the caller
	// listed constraints in. Recompute it directly from constraints.
	p.topLevelVars = p.topLevelVars[:0]
	for _, c := range constraints {
		p.topLevelVars = append(p.topLevelVars, p.index[c.Package])
	}

	p.edgesFrom = make([][]edge, len(p.vars))
	p.edgesTo = make([][]edge, len(p.vars))

	for from, vr := range p.vars {
		for i, pv := range vr.versions {
			for _, dep := range pv.Dependencies() {
				to, ok := p.index[dep.Target]
				if !ok {
					continue // unreachable per BFS; shouldn't happen
				}
				toVar := p.vars[to]
				allowed := newBitset(toVar.size())
				for j, tpv := range toVar.versions {
					if dep.Constraint.Includes(tpv.Version()) {
						allowed.set(j)
					}
				}
				e := edge{from: from, val: i, to: to, allowed: allowed}
				p.edgesFrom[from] = append(p.edgesFrom[from], e)
				p.edgesTo[to] = append(p.edgesTo[to], e)
			}
		}
	}

	for _, c := range constraints {
		varID := p.index[c.Package]
		vr := p.vars[varID]
		allowed := newBitset(vr.size())
		for i, pv := range vr.versions {
			if c.Constraint.Includes(pv.Version()) {
				allowed.set(i)
			}
		}
		p.restrictions = append(p.restrictions, restriction{v: varID, allowed: allowed})
	}

	if validPackages != nil {
		for varID, vr := range p.vars {
			if topLevelSet[vr.pkg] {
				continue
			}
			if !validPackages[vr.pkg.Name()] {
				allowed := newBitset(vr.size())
				allowed.set(vr.absentValue())
				p.restrictions = append(p.restrictions, restriction{v: varID, allowed: allowed})
			}
		}
	}

	return p, nil
}
