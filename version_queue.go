package depselector

// orderedValues lists variable v's remaining domain values in the order the
// search should try them: highest version index first (newest first), with
// ABSENT tried last when it is still permitted. Committing to a value here
// is what a branch-and-bound solver calls a version queue elsewhere; here
// it's simply a slice computed fresh off the live domain, since the
// underlying bitset already tracks what has been eliminated.
func (s *solveState) orderedValues(v int) []int {
	vr := s.p.vars[v]
	var out []int
	for i := len(vr.versions) - 1; i >= 0; i-- {
		if s.ds.doms[v].has(i) {
			out = append(out, i)
		}
	}
	if s.ds.doms[v].has(vr.absentValue()) {
		out = append(out, vr.absentValue())
	}
	return out
}
