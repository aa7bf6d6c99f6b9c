// Package checker verifies a solver's verdict against the original clause
// set, independent of the solver's internal state — the external model
// checker referred to by the soundness properties.
package checker

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/satlab/cdclsat/internal/cdcl"
)

// ModelSatisfies reports whether model satisfies every clause, where
// model[v] is cdcl.True or cdcl.False for each variable v in [1, numVars].
// Variables outside that range are never referenced by a well-formed
// formula and are ignored.
func ModelSatisfies(model []cdcl.Value, clauses [][]cdcl.Lit) bool {
	return lo.EveryBy(clauses, func(c []cdcl.Lit) bool {
		return lo.SomeBy(c, func(l cdcl.Lit) bool {
			return literalHolds(model, l)
		})
	})
}

func literalHolds(model []cdcl.Value, l cdcl.Lit) bool {
	v := l.Var()
	if int(v) >= len(model) {
		return false
	}
	isTrue := model[v] == cdcl.True
	if l.Negative() {
		isTrue = !isTrue
	}
	return isTrue
}

// Violation names the first clause a model fails to satisfy, by its index
// in the original clause order, for diagnostic reporting.
type Violation struct {
	ClauseIndex int
	Clause      []cdcl.Lit
}

func (v Violation) Error() string {
	return fmt.Sprintf("clause %d (%v) is not satisfied", v.ClauseIndex, v.Clause)
}

// FindViolation returns the first unsatisfied clause, or nil if model
// satisfies every clause. Like ModelSatisfies it stops at the first
// unsatisfied clause, but it reports which clause that is, so callers that
// want a diagnosable counterexample rather than a boolean should use this
// instead.
func FindViolation(model []cdcl.Value, clauses [][]cdcl.Lit) *Violation {
	for i, c := range clauses {
		if !lo.SomeBy(c, func(l cdcl.Lit) bool { return literalHolds(model, l) }) {
			return &Violation{ClauseIndex: i, Clause: c}
		}
	}
	return nil
}
