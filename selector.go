package depselector

import (
	"time"

	"github.com/dep-selector/depselector/log"
)

// FindSolutionOptions configures a single find_solution call.
type FindSolutionOptions struct {
	// TimeoutMS bounds wall-clock time spent solving. Zero means no bound.
	TimeoutMS int
	// ValidPackages, if non-nil, restricts which packages may appear at a
	// non-ABSENT version in the solution. Packages reached transitively but
	// absent from this set are treated as forced-ABSENT rather than
	// excluded from consideration entirely.
	ValidPackages []string
	// Trace turns on verbose search narration, written to TraceLogger (or
	// discarded if TraceLogger is nil).
	Trace       bool
	TraceLogger *log.Logger
}

func (o *FindSolutionOptions) validPackageSet() map[string]bool {
	if o == nil || o.ValidPackages == nil {
		return nil
	}
	set := make(map[string]bool, len(o.ValidPackages))
	for _, name := range o.ValidPackages {
		set[name] = true
	}
	return set
}

func (o *FindSolutionOptions) toBudget() *budget {
	if o == nil || o.TimeoutMS <= 0 {
		return nil
	}
	return &budget{deadline: time.Now().Add(time.Duration(o.TimeoutMS) * time.Millisecond)}
}

func (o *FindSolutionOptions) toTraceConfig() traceConfig {
	if o == nil || !o.Trace || o.TraceLogger == nil {
		return traceConfig{}
	}
	return traceConfig{on: true, tl: o.TraceLogger}
}

// Selector is the facade over a DependencyGraph: it validates, solves, and,
// on failure, diagnoses a set of top-level SolutionConstraints.
type Selector struct {
	graph *DependencyGraph
}

// NewSelector returns a Selector drawing packages from graph.
func NewSelector(graph *DependencyGraph) *Selector {
	return &Selector{graph: graph}
}

// FindSolution computes the best feasible assignment satisfying every
// constraint in order, per the lexicographic objective: prefer newer
// top-level versions, then the smallest induced-package footprint, then the
// newest versions among whatever induced packages remain.
//
// It returns *InvalidSolutionConstraintsError if any constraint names a
// non-existent package or one no known version satisfies,
// *NoSolutionExistsError if the constraints are jointly unsatisfiable, or
// *TimeBoundExceededError if options.TimeoutMS elapses first.
func (s *Selector) FindSolution(constraints []SolutionConstraint, options *FindSolutionOptions) (*Solution, error) {
	validPackages := options.validPackageSet()

	builder := NewProblemBuilder(s.graph)
	p, err := builder.Build(constraints, validPackages)
	if err != nil {
		return nil, err
	}

	sol, ok, err := solveProblemTraced(p, options.toBudget(), options.toTraceConfig())
	if err != nil {
		return nil, err
	}
	if ok {
		return sol, nil
	}

	return nil, NewDiagnoser(s.graph, validPackages).Diagnose(constraints)
}
