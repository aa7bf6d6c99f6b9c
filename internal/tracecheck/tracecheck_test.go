package tracecheck

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/satlab/cdclsat/internal/cdcl"
)

func lit(v int) cdcl.Lit { return cdcl.Lit(v) }

func TestReplayAcceptsALegalTrace(t *testing.T) {
	g := NewWithT(t)

	clauses := [][]cdcl.Lit{
		{lit(1), lit(2)},
		{lit(-1), lit(2)},
	}
	trace := []cdcl.Event{
		{Kind: cdcl.EventDecide, Lit: lit(1), Level: 1},
		{Kind: cdcl.EventAssign, Lit: lit(2)},
		{Kind: cdcl.EventUnassign, Lit: lit(2)},
		{Kind: cdcl.EventUnassign, Lit: lit(1)},
	}

	g.Expect(Replay(clauses, trace)).To(BeNil())
}

func TestReplayRejectsAnUnimpliedAssign(t *testing.T) {
	g := NewWithT(t)

	clauses := [][]cdcl.Lit{
		{lit(1), lit(2)},
	}
	trace := []cdcl.Event{
		{Kind: cdcl.EventAssign, Lit: lit(2)},
	}

	err := Replay(clauses, trace)
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.(*Fault).Index).To(Equal(0))
}

func TestReplayRejectsADecisionWithPendingPropagation(t *testing.T) {
	g := NewWithT(t)

	clauses := [][]cdcl.Lit{
		{lit(1)},
		{lit(-1), lit(2)},
	}
	trace := []cdcl.Event{
		{Kind: cdcl.EventDecide, Lit: lit(2), Level: 1},
	}

	g.Expect(Replay(clauses, trace)).To(HaveOccurred())
}

func TestReplayRejectsAFalseConflictClaim(t *testing.T) {
	g := NewWithT(t)

	clauses := [][]cdcl.Lit{
		{lit(1), lit(2)},
	}
	trace := []cdcl.Event{
		{Kind: cdcl.EventDecide, Lit: lit(1), Level: 1},
		{Kind: cdcl.EventConflict},
	}

	g.Expect(Replay(clauses, trace)).To(HaveOccurred())
}

func TestReplayRejectsUnassignOfSomethingNeverAssigned(t *testing.T) {
	g := NewWithT(t)

	clauses := [][]cdcl.Lit{{lit(1), lit(2)}}
	trace := []cdcl.Event{
		{Kind: cdcl.EventUnassign, Lit: lit(1)},
	}

	g.Expect(Replay(clauses, trace)).To(HaveOccurred())
}

func TestReplayDetectsARealConflict(t *testing.T) {
	g := NewWithT(t)

	clauses := [][]cdcl.Lit{
		{lit(1), lit(2)},
		{lit(-1), lit(-2)},
		{lit(-1), lit(2)},
	}
	trace := []cdcl.Event{
		{Kind: cdcl.EventDecide, Lit: lit(1), Level: 1},
		{Kind: cdcl.EventAssign, Lit: lit(2), Level: 1},
		{Kind: cdcl.EventConflict},
	}

	g.Expect(Replay(clauses, trace)).To(BeNil())
}
