// Package tracecheck replays a solver's own search trace (cdcl.Hooks.Trace)
// against the original clause set to confirm every assign, decide, and
// conflict event was actually legal — a check the post-hoc model checker in
// internal/checker cannot make, since it only ever sees the final model.
// It is a Go port of check_solver.py's is_implied/possible_propagations/
// check_conflict trio.
package tracecheck

import (
	"fmt"

	"github.com/satlab/cdclsat/internal/cdcl"
)

// Fault names the first illegal event Replay found.
type Fault struct {
	Index   int
	Event   cdcl.Event
	Problem string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("trace event %d (%s %v): %s", f.Index, f.Event.Kind, f.Event.Lit, f.Problem)
}

// Replay checks every event of trace against clauses in order, returning
// the first Fault found or nil if the whole trace is legal. trace is
// typically collected by setting cdcl.Hooks.Trace to append to a slice
// before calling Solver.Solve.
func Replay(clauses [][]cdcl.Lit, trace []cdcl.Event) error {
	var assigned []cdcl.Lit

	for i, ev := range trace {
		switch ev.Kind {
		case cdcl.EventDecide:
			if pending := possiblePropagations(clauses, assigned); len(pending) > 0 {
				return &Fault{Index: i, Event: ev, Problem: fmt.Sprintf("decided while propagation was still pending: %v", pending)}
			}
			assigned = append(assigned, ev.Lit)

		case cdcl.EventAssign:
			if !isImplied(ev.Lit, clauses, assigned) {
				return &Fault{Index: i, Event: ev, Problem: "propagated literal is not implied by the formula"}
			}
			assigned = append(assigned, ev.Lit)

		case cdcl.EventConflict:
			if !hasConflict(clauses, assigned) {
				return &Fault{Index: i, Event: ev, Problem: "conflict reported but no clause is actually falsified"}
			}

		case cdcl.EventUnassign:
			idx := indexOf(assigned, ev.Lit)
			if idx < 0 {
				return &Fault{Index: i, Event: ev, Problem: "unassign of a literal that was not assigned"}
			}
			assigned = append(assigned[:idx], assigned[idx+1:]...)
		}
	}
	return nil
}

// isImplied reports whether lit is forced true by some clause in which
// every other literal is already false under assigned — the unit-
// propagation legality check for an EventAssign.
func isImplied(lit cdcl.Lit, clauses [][]cdcl.Lit, assigned []cdcl.Lit) bool {
	for _, clause := range clauses {
		if !contains(clause, lit) {
			continue
		}
		allOthersFalse := true
		for _, other := range clause {
			if other == lit {
				continue
			}
			if !contains(assigned, other.Negate()) {
				allOthersFalse = false
				break
			}
		}
		if allOthersFalse {
			return true
		}
	}
	return false
}

// possiblePropagations lists every literal some clause currently forces,
// unassigned, given assigned — the "no propagation was pending" check an
// EventDecide must satisfy.
func possiblePropagations(clauses [][]cdcl.Lit, assigned []cdcl.Lit) []cdcl.Lit {
	var propagations []cdcl.Lit
	for _, clause := range clauses {
		if len(clause) == 1 {
			if !containsVar(assigned, clause[0]) {
				propagations = append(propagations, clause[0])
			}
			continue
		}
		var falseCount, unassignedLit, unassignedCount int
		for _, lit := range clause {
			switch {
			case contains(assigned, lit.Negate()):
				falseCount++
			case !containsVar(assigned, lit):
				unassignedLit = int(lit)
				unassignedCount++
			}
		}
		if falseCount == len(clause)-1 && unassignedCount == 1 {
			propagations = append(propagations, cdcl.Lit(unassignedLit))
		}
	}
	return propagations
}

// hasConflict reports whether some clause is entirely assigned and entirely
// false under assigned — the check an EventConflict must satisfy.
func hasConflict(clauses [][]cdcl.Lit, assigned []cdcl.Lit) bool {
	for _, clause := range clauses {
		fullyAssigned := true
		for _, lit := range clause {
			if !containsVar(assigned, lit) {
				fullyAssigned = false
				break
			}
		}
		if !fullyAssigned {
			continue
		}
		allFalse := true
		for _, lit := range clause {
			if !contains(assigned, lit.Negate()) {
				allFalse = false
				break
			}
		}
		if allFalse {
			return true
		}
	}
	return false
}

func contains(lits []cdcl.Lit, target cdcl.Lit) bool {
	for _, l := range lits {
		if l == target {
			return true
		}
	}
	return false
}

func containsVar(lits []cdcl.Lit, target cdcl.Lit) bool {
	for _, l := range lits {
		if l.Var() == target.Var() {
			return true
		}
	}
	return false
}

func indexOf(lits []cdcl.Lit, target cdcl.Lit) int {
	for i, l := range lits {
		if l == target {
			return i
		}
	}
	return -1
}
