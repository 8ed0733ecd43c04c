package depselector

// nextUnassigned picks the next variable to branch on. Unlike a
// general-purpose CSP solver, variable order here is fixed rather than
// dynamic (no min-remaining-values heuristic): unassigned top-level
// variables first, in the order their SolutionConstraint was given, then
// unassigned induced variables in BFS discovery order. Fixing the order
// this way is what makes a solve's output deterministic across runs.
func (s *solveState) nextUnassigned() (int, bool) {
	for _, v := range s.p.topLevelVars {
		if _, ok := s.ds.singleton(v); !ok {
			return v, true
		}
	}
	for _, v := range s.p.inducedVars {
		if _, ok := s.ds.singleton(v); !ok {
			return v, true
		}
	}
	return 0, false
}
