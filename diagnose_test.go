package depselector

import "testing"

func TestDiagnoseIdentifiesMostConstrainedPackage(t *testing.T) {
	_, _, b, c, _ := sampleGraph()

	constraints := []SolutionConstraint{
		{Package: b, Constraint: mustConstraint("= 3.0.0")},
		{Package: c, Constraint: mustConstraint("= 2.0.0")},
	}

	diag := NewDiagnoser(b.graph, nil).Diagnose(constraints)
	if diag == nil {
		t.Fatal("expected a diagnosis")
	}
	if diag.MostConstrainedPackage != "D" {
		t.Errorf("expected D to be blamed, got %q", diag.MostConstrainedPackage)
	}
	if len(diag.Paths) == 0 {
		t.Fatalf("expected at least one explanation path")
	}
	for _, p := range diag.Paths {
		last := p[len(p)-1]
		if last.Package != "D" {
			t.Errorf("expected every path to end at D, got %s", last.Package)
		}
	}
}

func TestDiagnoseMinimalPrefixIgnoresTrailingSatisfiableConstraints(t *testing.T) {
	_, a, b, c, _ := sampleGraph()

	// The conflict is entirely between B and C; A is satisfiable on its own
	// and appended after the real conflict, so the minimal infeasible prefix
	// must stop at C and never need to inspect A.
	constraints := []SolutionConstraint{
		{Package: b, Constraint: mustConstraint("= 3.0.0")},
		{Package: c, Constraint: mustConstraint("= 2.0.0")},
		{Package: a},
	}

	diag := NewDiagnoser(b.graph, nil).Diagnose(constraints)
	if diag.OffendingConstraintIndex != 1 {
		t.Errorf("expected the offending prefix to end at index 1 (C), got %d", diag.OffendingConstraintIndex)
	}
}

func TestDiagnoseReportsValidationFailureDirectly(t *testing.T) {
	g := NewDependencyGraph()
	ghost := g.Package("Ghost") // mentioned, never given a version

	diag := NewDiagnoser(g, nil).Diagnose([]SolutionConstraint{{Package: ghost}})
	if diag.MostConstrainedPackage != "Ghost" {
		t.Errorf("expected Ghost to be named directly from validation, got %q", diag.MostConstrainedPackage)
	}
}
