package depselector

import "time"

// budget bounds how long a solve is allowed to run, either by wall clock or
// by number of backtracks taken. A nil budget never expires.
type budget struct {
	deadline      time.Time
	maxBacktracks int
}

func (b *budget) exceeded(backtracks int) bool {
	if b == nil {
		return false
	}
	if b.maxBacktracks > 0 && backtracks >= b.maxBacktracks {
		return true
	}
	if !b.deadline.IsZero() && !time.Now().Before(b.deadline) {
		return true
	}
	return false
}

// solveState carries everything a single solve attempt needs: the compiled
// problem, its live domains, the optional resource budget, and the best
// complete assignment found so far.
type solveState struct {
	p      *problem
	ds     *domainStore
	budget *budget
	tr     traceConfig
	depth  int

	foundAny   bool
	bestCost   *cost
	bestAssign []int // varID -> chosen domain value, valid once foundAny

	backtracks int
	timedOut   bool
}

// cost is the three-level lexicographic objective from the component
// design: maximise top-level versions, then minimise the induced-package
// footprint, then maximise the versions of whichever induced packages
// remain.
type cost struct {
	topLevel     []int
	presentCount int
	induced      []int // -1 where the induced package is ABSENT
}

func compareVec(a, b []int) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

func better(a, b cost) bool {
	if c := compareVec(a.topLevel, b.topLevel); c != 0 {
		return c > 0
	}
	if a.presentCount != b.presentCount {
		return a.presentCount < b.presentCount
	}
	return compareVec(a.induced, b.induced) > 0
}

// solveProblem runs a complete branch-and-bound search over p. It returns
// (solution, true, nil) on success, (nil, false, nil) when p is provably
// infeasible, and (nil, false, err) when the budget expired before either
// could be determined.
func solveProblem(p *problem, b *budget) (*Solution, bool, error) {
	return solveProblemTraced(p, b, traceConfig{})
}

// solveProblemTraced is solveProblem with optional verbose search narration.
func solveProblemTraced(p *problem, b *budget, tr traceConfig) (*Solution, bool, error) {
	state := &solveState{p: p, ds: newDomainStore(p.sizes()), budget: b, tr: tr}

	var seeds []int
	for _, r := range p.restrictions {
		removed := state.ds.restrictTo(r.v, r.allowed)
		if len(removed) > 0 {
			seeds = append(seeds, r.v)
			if state.ds.isEmpty(r.v) {
				return nil, false, nil
			}
		}
	}

	if !state.propagateFrom(seeds) {
		return nil, false, nil
	}

	state.search()

	if state.timedOut {
		return nil, false, &TimeBoundExceededError{Backtracks: state.backtracks}
	}
	if !state.foundAny {
		return nil, false, nil
	}

	return state.buildSolution(), true, nil
}

// propagateFrom runs the value-elimination fixpoint starting from a set of
// just-changed variables. It returns false the moment any variable's domain
// is emptied.
func (s *solveState) propagateFrom(seeds []int) bool {
	queue := append([]int(nil), seeds...)
	queued := make([]bool, len(s.p.vars))
	for _, v := range seeds {
		queued[v] = true
	}

	enqueue := func(v int) bool {
		if s.ds.isEmpty(v) {
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

// search explores the decision tree depth-first. Once any complete
// assignment has been found beneath a top-level variable's current value,
// that variable never backtracks to a worse value: the greedy,
// highest-version-first value order already makes the first solution
// optimal for the top-level criterion. Induced variables keep exploring
// every remaining alternative so the footprint/version criteria can be
// compared across candidates.
func (s *solveState) search() {
	if s.timedOut || s.budget.exceeded(s.backtracks) {
		s.timedOut = true
		return
	}

	v, ok := s.nextUnassigned()
	if !ok {
		s.recordCandidate()
		return
	}
	isTop := s.p.vars[v].topLevel

	for _, val := range s.orderedValues(v) {
		mark := s.ds.mark()
		s.traceTry(v, val)
		if s.assign(v, val) {
			s.depth++
			s.search()
			s.depth--
			if s.timedOut {
				s.ds.undoTo(mark)
				return
			}
			if isTop && s.foundAny {
				s.ds.undoTo(mark)
				return
			}
		} else {
			s.traceConflict(v, val)
		}
		s.ds.undoTo(mark)
		s.backtracks++
	}
}

// assign pins v to val and propagates the consequences, reporting whether
// the resulting domain store is still consistent.
func (s *solveState) assign(v, val int) bool {
	singleton := newBitset(s.p.vars[v].size())
	singleton.set(val)
	s.ds.restrictTo(v, singleton)
	return s.propagateFrom([]int{v})
}

func (s *solveState) recordCandidate() {
	s.foundAny = true
	c := s.computeCost()
	s.traceSolution(c)
	if s.bestCost == nil || better(c, *s.bestCost) {
		s.bestCost = &c
		s.bestAssign = s.snapshotAssignment()
	}
}

func (s *solveState) computeCost() cost {
	c := cost{
		topLevel: make([]int, len(s.p.topLevelVars)),
		induced:  make([]int, len(s.p.inducedVars)),
	}
	for i, v := range s.p.topLevelVars {
		val, _ := s.ds.singleton(v)
		c.topLevel[i] = val
	}
	for i, v := range s.p.inducedVars {
		val, _ := s.ds.singleton(v)
		if val == s.p.vars[v].absentValue() {
			c.induced[i] = -1
		} else {
			c.induced[i] = val
			c.presentCount++
		}
	}
	return c
}

func (s *solveState) snapshotAssignment() []int {
	out := make([]int, len(s.p.vars))
	for v := range s.p.vars {
		val, _ := s.ds.singleton(v)
		out[v] = val
	}
	return out
}

