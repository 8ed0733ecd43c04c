package depselector

import "testing"

// seedGraph builds the literal fixture graph G: A:{1,2}, B:{1,2,3}, C:{1,2},
// D:{1,2}, with A1->B=1, A1->D=2, A2->B>=2, A2->C=1, B3->D=1, C2->D=2.
func seedGraph() (g *DependencyGraph, a, b, c, d *Package) {
	g = NewDependencyGraph()
	a, b, c, d = g.Package("A"), g.Package("B"), g.Package("C"), g.Package("D")

	d.AddVersion(MustParseVersion("1.0.0"))
	d.AddVersion(MustParseVersion("2.0.0"))

	b.AddVersion(MustParseVersion("1.0.0"))
	b.AddVersion(MustParseVersion("2.0.0"))
	b3 := b.AddVersion(MustParseVersion("3.0.0"))
	b3.DependsOn(d, mustConstraint("=1.0.0"))

	c.AddVersion(MustParseVersion("1.0.0"))
	c2 := c.AddVersion(MustParseVersion("2.0.0"))
	c2.DependsOn(d, mustConstraint("=2.0.0"))

	a1 := a.AddVersion(MustParseVersion("1.0.0"))
	a1.DependsOn(b, mustConstraint("=1.0.0"))
	a1.DependsOn(d, mustConstraint("=2.0.0"))

	a2 := a.AddVersion(MustParseVersion("2.0.0"))
	a2.DependsOn(b, mustConstraint(">=2.0.0"))
	a2.DependsOn(c, mustConstraint("=1.0.0"))

	return
}

func TestSeedS1InducesDThroughA1(t *testing.T) {
	_, a, b, _, _ := seedGraph()
	sol := solve(t, []SolutionConstraint{
		{Package: a},
		{Package: b, Constraint: mustConstraint("= 1.0.0")},
	})

	for name, want := range map[string]string{"A": "1.0.0", "B": "1.0.0", "D": "2.0.0"} {
		got, ok := sol.Version(name)
		if !ok || got.String() != want {
			t.Errorf("%s = %v (present=%v), want %s", name, got, ok, want)
		}
	}
	if _, present := sol.Version("C"); present {
		t.Errorf("C should stay absent: A2 (the only version that needs C) is excluded once B is pinned to 1.0.0")
	}
}

func TestSeedS3BlamesDWithBothExplanationPaths(t *testing.T) {
	_, _, b, c, _ := seedGraph()
	constraints := []SolutionConstraint{
		{Package: b, Constraint: mustConstraint("=3.0.0")},
		{Package: c, Constraint: mustConstraint("=2.0.0")},
	}

	diag := NewDiagnoser(b.graph, nil).Diagnose(constraints)
	if diag.MostConstrainedPackage != "D" {
		t.Fatalf("expected D to be blamed, got %q", diag.MostConstrainedPackage)
	}

	want := map[string]bool{"B {=3.0.0} -> D {=1.0.0}": true, "C {=2.0.0} -> D {=2.0.0}": true}
	got := make(map[string]bool, len(diag.Paths))
	for _, p := range diag.Paths {
		got[renderPath(p)] = true
	}
	for w := range want {
		if !got[w] {
			t.Errorf("expected explanation path %q, got %v", w, got)
		}
	}
}

func TestSeedS4BlamesUnreachableDependencyTarget(t *testing.T) {
	g := NewDependencyGraph()
	dependsOnNosuch := g.Package("depends_on_nosuch")
	nosuch := g.Package("nosuch") // mentioned via the dependency below, never given a version

	v := dependsOnNosuch.AddVersion(MustParseVersion("1.0.0"))
	v.DependsOn(nosuch, Any())

	diag := NewDiagnoser(g, nil).Diagnose([]SolutionConstraint{{Package: dependsOnNosuch}})
	if diag.MostConstrainedPackage != "nosuch" {
		t.Errorf("expected nosuch to be blamed, got %q", diag.MostConstrainedPackage)
	}
}

func TestSeedS5AggregatesAllInvalidConstraints(t *testing.T) {
	g, a, b, _, _ := seedGraph()

	err := NewProblemBuilder(g).Validate([]SolutionConstraint{
		{Package: g.Package("nosuch")},
		{Package: g.Package("nosuch2")},
		{Package: a, Constraint: mustConstraint(">= 10.0.0")},
		{Package: b, Constraint: mustConstraint(">= 50.0.0")},
	})

	bad, ok := err.(*InvalidSolutionConstraintsError)
	if !ok {
		t.Fatalf("expected *InvalidSolutionConstraintsError, got %T (%v)", err, err)
	}
	if len(bad.NonExistentPackages) != 2 {
		t.Errorf("expected 2 non-existent packages, got %v", bad.NonExistentPackages)
	}
	if len(bad.ConstrainedToNoVersions) != 2 {
		t.Errorf("expected 2 constrained-to-no-versions packages, got %v", bad.ConstrainedToNoVersions)
	}
}

func TestSeedS6PrefersNewestAAndItsCheapestInducedSet(t *testing.T) {
	_, a, _, _, _ := seedGraph()
	sol := solve(t, []SolutionConstraint{{Package: a}})

	for name, want := range map[string]string{"A": "2.0.0", "B": "2.0.0", "C": "1.0.0"} {
		got, ok := sol.Version(name)
		if !ok || got.String() != want {
			t.Errorf("%s = %v (present=%v), want %s", name, got, ok, want)
		}
	}
	if _, present := sol.Version("D"); present {
		t.Errorf("D should stay absent: B should settle for 2.0.0 rather than 3.0.0 to avoid dragging D in")
	}
}
