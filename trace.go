package depselector

import (
	"strings"

	"github.com/dep-selector/depselector/log"
)

const (
	successChar = "✓"
	failChar    = "✗"
	backChar    = "←"
)

// traceConfig turns on verbose, human-readable search narration, useful for
// understanding why a solve took the path it did. It costs nothing when
// off: every call site below checks .on before formatting anything.
type traceConfig struct {
	on bool
	tl *log.Logger
}

func (s *solveState) tracePrefix() string {
	return strings.Repeat("| ", s.depth)
}

func (s *solveState) traceTry(v, val int) {
	if !s.tr.on {
		return
	}
	vr := s.p.vars[v]
	label := versionLabel(vr, val)
	s.tr.tl.Logf("%s%s try %s = %s\n", s.tracePrefix(), successChar, vr.pkg.Name(), label)
}

func (s *solveState) traceConflict(v, val int) {
	if !s.tr.on {
		return
	}
	vr := s.p.vars[v]
	label := versionLabel(vr, val)
	s.tr.tl.Logf("%s%s %s = %s %s backtrack\n", s.tracePrefix(), failChar, vr.pkg.Name(), label, backChar)
}

func (s *solveState) traceSolution(c cost) {
	if !s.tr.on {
		return
	}
	s.tr.tl.Logf("%s found candidate: %d top-level, %d induced present\n", successChar, len(c.topLevel), c.presentCount)
}

func versionLabel(vr *variable, val int) string {
	if val == vr.absentValue() {
		return "ABSENT"
	}
	return vr.versions[val].Version().String()
}
