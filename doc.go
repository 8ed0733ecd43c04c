// Package depselector resolves package dependency graphs to a single,
// deterministic set of versions.
//
// A DependencyGraph describes every known package, the versions that exist
// for each, and the version-constrained dependencies each version declares
// on other packages. A Selector takes a graph plus a list of top-level
// SolutionConstraints (packages the caller wants in the result, optionally
// pinned to a VersionConstraint) and finds the best assignment of versions
// to packages that satisfies them all, preferring newer top-level versions,
// then the smallest set of additional (induced) packages pulled in
// transitively, then the newest versions of whichever of those remain.
//
// When no assignment exists, FindSolution returns a NoSolutionExistsError
// identifying the package most responsible for the conflict and the chains
// of constraints that lead to it, rather than simply reporting failure.
package depselector
