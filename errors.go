package depselector

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// MalformedVersionError is returned when a version string does not match the
// grammar MAJOR[.MINOR[.PATCH]][-PRE][+BUILD].
type MalformedVersionError struct {
	Input string
	Cause error
}

func (e *MalformedVersionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed version %q: %s", e.Input, e.Cause)
	}
	return fmt.Sprintf("malformed version %q", e.Input)
}

func (e *MalformedVersionError) Unwrap() error { return e.Cause }

// MalformedConstraintError is returned when a constraint string does not
// parse per the atom grammar OP? SP* VERSION.
type MalformedConstraintError struct {
	Input  string
	Reason string
}

func (e *MalformedConstraintError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed constraint %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("malformed constraint %q", e.Input)
}

// InvalidSolutionConstraintsError aggregates every top-level constraint
// rejected during validation, before any solving was attempted.
type InvalidSolutionConstraintsError struct {
	NonExistentPackages     []string
	ConstrainedToNoVersions []string
}

func (e *InvalidSolutionConstraintsError) Error() string {
	var buf bytes.Buffer
	fmt.Fprint(&buf, "invalid solution constraints:")

	if len(e.NonExistentPackages) > 0 {
		fmt.Fprintf(&buf, "\n\tno such package: %s", strings.Join(e.NonExistentPackages, ", "))
	}
	if len(e.ConstrainedToNoVersions) > 0 {
		fmt.Fprintf(&buf, "\n\tconstraint matches no version of: %s", strings.Join(e.ConstrainedToNoVersions, ", "))
	}

	return buf.String()
}

func (e *InvalidSolutionConstraintsError) empty() bool {
	return len(e.NonExistentPackages) == 0 && len(e.ConstrainedToNoVersions) == 0
}

// ConstraintPathStep is one hop of an explanation chain rendered by the
// diagnoser: the package the path passes through, and the constraint that
// narrowed it at that hop.
type ConstraintPathStep struct {
	Package    string
	Constraint string
}

func (s ConstraintPathStep) String() string {
	return fmt.Sprintf("%s {%s}", s.Package, s.Constraint)
}

// NoSolutionExistsError is raised when the solver proves that no assignment
// satisfies every top-level and induced constraint together. It carries
// enough structure for a caller to build its own report.
type NoSolutionExistsError struct {
	OffendingConstraintIndex int
	MostConstrainedPackage   string
	Paths                    [][]ConstraintPathStep
	Message                  string
}

func (e *NoSolutionExistsError) Error() string {
	return e.Message
}

func renderNoSolution(pkg string, paths [][]ConstraintPathStep) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "no solution exists: package %q is over-constrained", pkg)

	rendered := make([]string, len(paths))
	for i, p := range paths {
		rendered[i] = renderPath(p)
	}
	sort.Strings(rendered)

	for _, r := range rendered {
		fmt.Fprintf(&buf, "\n\t%s", r)
	}
	return buf.String()
}

func renderPath(path []ConstraintPathStep) string {
	parts := make([]string, len(path))
	for i, s := range path {
		parts[i] = s.String()
	}
	return strings.Join(parts, " -> ")
}

// TimeBoundExceededError is returned when a solve is cancelled by its budget
// (wall clock or backtrack count) before a feasible assignment, or proof of
// infeasibility, could be produced.
type TimeBoundExceededError struct {
	Backtracks int
}

func (e *TimeBoundExceededError) Error() string {
	return fmt.Sprintf("time bound exceeded after %d backtracks", e.Backtracks)
}

// internalError indicates an invariant was violated somewhere the solver
// assumed could never happen.
type internalError struct {
	msg string
}

func (e *internalError) Error() string {
	return "depselector: internal invariant violated: " + e.msg
}
