package cdcl

import "math"

// ClauseRef is a stable, non-owning handle into a ClauseStore. Handles
// remain valid for the lifetime of the solver: clauses are never deleted
// from the core, learned clauses are only appended.
type ClauseRef uint32

// NoClause is the sentinel ClauseRef meaning "no clause" — used both for
// the Option<conflicting clause> return of Propagate and for antecedents
// of decisions and level-0 unit assignments.
const NoClause ClauseRef = math.MaxUint32

// Clause is an ordered, distinct sequence of literals. For clauses of size
// >= 2 the literals at index 0 and 1 are the two watched positions; moving
// a watch is implemented by swapping the relevant literal into one of
// those two slots, never by tracking watch state separately from the
// literal order.
type Clause struct {
	lits   []Lit
	learnt bool
}

func (c *Clause) Len() int    { return len(c.lits) }
func (c *Clause) At(i int) Lit { return c.lits[i] }
func (c *Clause) Learnt() bool { return c.learnt }

// Lits returns the clause's literals in stored order. The returned slice
// aliases the clause's storage; callers must not retain it past the next
// mutation of this clause.
func (c *Clause) Lits() []Lit { return c.lits }

// AddOutcome reports the side effect of ClauseStore.Add, mirroring the
// three size classes the spec assigns distinct behavior to.
type AddOutcome int

const (
	// OutcomeClauseAdded: size >= 2, stored and watched.
	OutcomeClauseAdded AddOutcome = iota
	// OutcomeUnitAsserted: size == 1, asserted at level 0.
	OutcomeUnitAsserted
	// OutcomeEmptyClauseFound: size == 0, or a unit already falsified at
	// level 0.
	OutcomeEmptyClauseFound
)

// ClauseStore owns every original and learned clause and hands out stable
// handles. Backed by an append-only slice rather than a map: clause
// references are assigned in allocation order, so a slice indexed by
// ClauseRef is both simpler and faster than a map keyed by ClauseRef (the
// teacher codebase flags the map-based allocator's lookup cost as a known
// weak point; this keeps the same handle-based API while removing it).
type ClauseStore struct {
	clauses []*Clause
}

func NewClauseStore() *ClauseStore {
	return &ClauseStore{}
}

func (cs *ClauseStore) Get(ref ClauseRef) *Clause {
	return cs.clauses[ref]
}

func (cs *ClauseStore) alloc(lits []Lit, learnt bool) ClauseRef {
	ref := ClauseRef(len(cs.clauses))
	owned := make([]Lit, len(lits))
	copy(owned, lits)
	cs.clauses = append(cs.clauses, &Clause{lits: owned, learnt: learnt})
	return ref
}

// Add implements §4.2's add operation for original (pre-search) clauses.
// For size >= 2 it copies the literals, initializes the two watched
// positions to indices 0 and 1, installs the clause in watches[lits[0]]
// and watches[lits[1]], and returns the new handle. For size 1 it asserts
// the unit at level 0 directly (or reports an already-falsified unit as an
// empty clause). For size 0 it reports an empty clause. assign and watches
// are threaded through explicitly rather than held by the store, since
// those side effects cross component boundaries by design.
func (cs *ClauseStore) Add(assign *AssignStore, watches *WatchIndex, lits []Lit) (ClauseRef, AddOutcome) {
	switch len(lits) {
	case 0:
		return NoClause, OutcomeEmptyClauseFound
	case 1:
		lit := lits[0]
		switch assign.Value(lit) {
		case False:
			return NoClause, OutcomeEmptyClauseFound
		case True:
			return NoClause, OutcomeUnitAsserted
		default:
			assign.Assign(lit, NoClause)
			return NoClause, OutcomeUnitAsserted
		}
	default:
		ref := cs.alloc(lits, false)
		cs.attach(ref, watches)
		return ref, OutcomeClauseAdded
	}
}

// AddLearned allocates and attaches a learned clause of size >= 2. Unlike
// Add, it never special-cases size 0/1: the search driver handles the
// unit-learned-clause case itself (assigning the asserting literal
// directly at the backjump level), so AddLearned is only ever called with
// len(lits) >= 2.
func (cs *ClauseStore) AddLearned(watches *WatchIndex, lits []Lit) ClauseRef {
	ref := cs.alloc(lits, true)
	cs.attach(ref, watches)
	return ref
}

func (cs *ClauseStore) attach(ref ClauseRef, watches *WatchIndex) {
	c := cs.clauses[ref]
	watches.Append(c.lits[0], ref)
	watches.Append(c.lits[1], ref)
}
