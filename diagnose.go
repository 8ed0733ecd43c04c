package depselector

import "sort"

// Diagnoser builds a NoSolutionExistsError out of a graph and a list of
// top-level constraints already known (by a prior solve) to be jointly
// unsatisfiable. It reuses the plain solver to probe sub-problems rather
// than implementing a second inference engine.
type Diagnoser struct {
	graph         *DependencyGraph
	validPackages map[string]bool
}

// NewDiagnoser returns a diagnoser over graph. validPackages may be nil.
func NewDiagnoser(graph *DependencyGraph, validPackages map[string]bool) *Diagnoser {
	return &Diagnoser{graph: graph, validPackages: validPackages}
}

// Diagnose assumes constraints (in their original order) are jointly
// unsatisfiable and explains why: the shortest offending prefix (Goal A),
// the single most-constrained package within it (Goal B), and a set of
// explanation chains connecting top-level constraints to that package
// (Goal C).
func (d *Diagnoser) Diagnose(constraints []SolutionConstraint) *NoSolutionExistsError {
	k := d.minimalInfeasiblePrefix(constraints)
	prefix := constraints[:k]

	mostConstrained := d.mostConstrainedPackage(prefix)
	paths := d.explanationPaths(prefix, mostConstrained)

	return &NoSolutionExistsError{
		OffendingConstraintIndex: k - 1,
		MostConstrainedPackage:   mostConstrained,
		Paths:                    paths,
		Message:                  renderNoSolution(mostConstrained, paths),
	}
}

func (d *Diagnoser) feasible(constraints []SolutionConstraint) bool {
	p, err := NewProblemBuilder(d.graph).Build(constraints, d.validPackages)
	if err != nil {
		return false
	}
	_, ok, _ := solveProblem(p, nil)
	return ok
}

// minimalInfeasiblePrefix returns the smallest k such that constraints[:k]
// is unsatisfiable but constraints[:k-1] is satisfiable, via binary search.
// constraints[:len(constraints)] is assumed unsatisfiable already.
func (d *Diagnoser) minimalInfeasiblePrefix(constraints []SolutionConstraint) int {
	lo, hi := 0, len(constraints)
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if d.feasible(constraints[:mid]) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

// mostConstrainedPackage runs the exhaustive search over the (necessarily
// unsatisfiable) prefix and counts, across every domain-wipeout the search
// encounters, which package's domain emptied. The package with the highest
// count is reported as most responsible for the failure; ties are broken by
// lexicographically-smallest package name, for a deterministic result.
func (d *Diagnoser) mostConstrainedPackage(prefix []SolutionConstraint) string {
	p, err := NewProblemBuilder(d.graph).Build(prefix, d.validPackages)
	if err != nil {
		// Validation-level failure: the offending package is named directly
		// by the builder's own error.
		if bad, ok := err.(*InvalidSolutionConstraintsError); ok {
			if len(bad.NonExistentPackages) > 0 {
				return bad.NonExistentPackages[0]
			}
			if len(bad.ConstrainedToNoVersions) > 0 {
				return bad.ConstrainedToNoVersions[0]
			}
		}
		return ""
	}

	counts := make(map[string]int)
	countWipeout := func(v int) {
		counts[p.vars[v].pkg.Name()]++
	}

	state := &blameState{solveState: solveState{p: p, ds: newDomainStore(p.sizes())}, onWipeout: countWipeout}

	var seeds []int
	for _, r := range p.restrictions {
		if removed := state.ds.restrictTo(r.v, r.allowed); len(removed) > 0 {
			seeds = append(seeds, r.v)
			if state.ds.isEmpty(r.v) {
				countWipeout(r.v)
			}
		}
	}
	if state.propagateFromCounting(seeds) {
		state.searchCounting()
	}

	return argmaxName(counts)
}

// blameState extends solveState with wipeout instrumentation for Goal B. It
// reuses solveState's fields and its variable/value ordering (nextUnassigned,
// orderedValues); propagateFromCounting and searchCounting are copies of
// propagateFrom and search that additionally report every domain wipeout.
type blameState struct {
	solveState
	onWipeout func(v int)
}

func (s *blameState) propagateFromCounting(seeds []int) bool {
	queue := append([]int(nil), seeds...)
	queued := make([]bool, len(s.p.vars))
	for _, v := range seeds {
		queued[v] = true
	}

	enqueue := func(v int) bool {
		if s.ds.isEmpty(v) {
			s.onWipeout(v)
			return false
		}
		if !queued[v] {
			queue = append(queue, v)
			queued[v] = true
		}
		return true
	}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		queued[v] = false

		for _, e := range s.p.edgesFrom[v] {
			val, ok := s.ds.singleton(v)
			if !ok || val != e.val {
				continue
			}
			if removed := s.ds.restrictTo(e.to, e.allowed); len(removed) > 0 {
				if !enqueue(e.to) {
					return false
				}
			}
		}

		for _, e := range s.p.edgesTo[v] {
			j, ok := s.ds.singleton(v)
			if !ok || e.allowed.has(j) {
				continue
			}
			if s.ds.remove(e.from, e.val) {
				if !enqueue(e.from) {
					return false
				}
			}
		}
	}

	return true
}

// searchCounting walks the full search tree exhaustively (appropriate here
// because the prefix is known unsatisfiable, so no incumbent ever prunes
// it) and records a wipeout every time a branch's propagation fails.
func (s *blameState) searchCounting() {
	v, ok := s.nextUnassigned()
	if !ok {
		return // would be a solution; can't happen for an unsat prefix
	}

	for _, val := range s.orderedValues(v) {
		mark := s.ds.mark()
		singleton := newBitset(s.p.vars[v].size())
		singleton.set(val)
		s.ds.restrictTo(v, singleton)

		if s.propagateFromCounting([]int{v}) {
			s.searchCounting()
		}
		s.ds.undoTo(mark)
	}
}

func argmaxName(counts map[string]int) string {
	var best string
	bestCount := -1
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if counts[n] > bestCount {
			bestCount = counts[n]
			best = n
		}
	}
	return best
}

// explanationPaths finds every simple chain, starting at a top-level
// constrained package and following live dependency edges, that ends at
// target. Each returned path is rendered as a sequence of (package,
// constraint) steps, mirroring the human-readable chains described for the
// diagnoser: "B {=3} -> D {=1}".
func (d *Diagnoser) explanationPaths(prefix []SolutionConstraint, target string) [][]ConstraintPathStep {
	if target == "" {
		return nil
	}

	var paths [][]ConstraintPathStep
	seen := make(map[string]bool)

	for _, c := range prefix {
		if !c.Package.Exists() {
			continue
		}
		var walk func(pkg *Package, constraintIn VersionConstraint, visited map[*Package]bool, path []ConstraintPathStep)
		walk = func(pkg *Package, constraintIn VersionConstraint, visited map[*Package]bool, path []ConstraintPathStep) {
			path = append(path, ConstraintPathStep{Package: pkg.Name(), Constraint: constraintIn.String()})

			if pkg.Name() == target {
				key := renderPath(path)
				if !seen[key] {
					seen[key] = true
					cp := make([]ConstraintPathStep, len(path))
					copy(cp, path)
					paths = append(paths, cp)
				}
				return
			}

			if len(path) > len(d.graph.Packages())+1 {
				return // guards against pathological cycles
			}

			visited[pkg] = true
			defer delete(visited, pkg)

			for _, pv := range pkg.Versions() {
				if !constraintIn.Includes(pv.Version()) {
					continue
				}
				for _, dep := range pv.Dependencies() {
					if visited[dep.Target] {
						continue
					}
					walk(dep.Target, dep.Constraint, visited, path)
				}
			}
		}

		walk(c.Package, c.Constraint, map[*Package]bool{}, nil)
	}

	return paths
}
