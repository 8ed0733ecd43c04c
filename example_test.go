package depselector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dep "github.com/dep-selector/depselector"
)

// buildDiamond wires up a small diamond graph: Top depends on both Left and
// Right, each of which depends on a shared Bottom at overlapping ranges.
func buildDiamond(t *testing.T) (*dep.DependencyGraph, map[string]*dep.Package) {
	t.Helper()
	g := dep.NewDependencyGraph()
	top, left, right, bottom := g.Package("Top"), g.Package("Left"), g.Package("Right"), g.Package("Bottom")

	bottom.AddVersion(dep.MustParseVersion("1.0.0"))
	bottom.AddVersion(dep.MustParseVersion("1.1.0"))
	bottom.AddVersion(dep.MustParseVersion("2.0.0"))

	l1 := left.AddVersion(dep.MustParseVersion("1.0.0"))
	c, err := dep.ParseConstraint(">= 1.0.0 < 2.0.0")
	require.NoError(t, err)
	l1.DependsOn(bottom, c)

	r1 := right.AddVersion(dep.MustParseVersion("1.0.0"))
	c2, err := dep.ParseConstraint(">= 1.1.0 < 2.0.0")
	require.NoError(t, err)
	r1.DependsOn(bottom, c2)

	t1 := top.AddVersion(dep.MustParseVersion("1.0.0"))
	t1.DependsOn(left, dep.Any())
	t1.DependsOn(right, dep.Any())

	return g, map[string]*dep.Package{"Top": top, "Left": left, "Right": right, "Bottom": bottom}
}

func TestEndToEndDiamondConvergesOnSharedFloor(t *testing.T) {
	g, pkgs := buildDiamond(t)
	sel := dep.NewSelector(g)

	sol, err := sel.FindSolution([]dep.SolutionConstraint{{Package: pkgs["Top"]}}, nil)
	require.NoError(t, err)

	bv, ok := sol.Version("Bottom")
	require.True(t, ok, "Bottom should be induced by both Left and Right")
	assert.Equal(t, "1.1.0", bv.String(), "the only version satisfying both Left's and Right's ranges is 1.1.0")

	assert.ElementsMatch(t, []string{"Top", "Left", "Right", "Bottom"}, sol.Packages())
}

func TestEndToEndDiamondReportsConflict(t *testing.T) {
	g, pkgs := buildDiamond(t)

	narrow, err := dep.ParseConstraint("= 1.0.0")
	require.NoError(t, err)
	g.Package("Left").Versions()[0].DependsOn(pkgs["Bottom"], narrow)

	sel := dep.NewSelector(g)
	_, err = sel.FindSolution([]dep.SolutionConstraint{{Package: pkgs["Top"]}}, nil)

	var diag *dep.NoSolutionExistsError
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, "Bottom", diag.MostConstrainedPackage)
}
