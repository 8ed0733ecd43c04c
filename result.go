package depselector

// Solution is a complete, feasible assignment of versions to packages,
// produced by a successful solve.
type Solution struct {
	versions map[string]Version
	order    []string
}

// Version returns the version assigned to the named package, and whether
// the package is present in the solution at all.
func (s *Solution) Version(name string) (Version, bool) {
	v, ok := s.versions[name]
	return v, ok
}

// Packages returns the names of every package present in the solution:
// top-level packages first, in the order their SolutionConstraint was
// given, then induced packages in discovery order.
func (s *Solution) Packages() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// buildSolution reads the incumbent assignment out of a finished search and
// renders it as a Solution, dropping any package pinned to ABSENT.
func (s *solveState) buildSolution() *Solution {
	sol := &Solution{versions: make(map[string]Version)}

	addIfPresent := func(v int) {
		vr := s.p.vars[v]
		val := s.bestAssign[v]
		if val == vr.absentValue() {
			return
		}
		sol.versions[vr.pkg.Name()] = vr.versions[val].Version()
		sol.order = append(sol.order, vr.pkg.Name())
	}

	for _, v := range s.p.topLevelVars {
		addIfPresent(v)
	}
	for _, v := range s.p.inducedVars {
		addIfPresent(v)
	}

	return sol
}
