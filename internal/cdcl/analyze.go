package cdcl

// Analyzer performs first-UIP conflict analysis: given a conflicting clause
// at the current decision level, it produces a learned clause, the
// backjump level, and the asserting (UIP) literal.
//
// Each variable carries a stamp (conflict-count token): a variable is
// "seen" during this analysis iff its stamp equals the token passed in,
// which the driver sets to the current conflict count. Because the
// conflict count is strictly monotonic and never reused, stamps never need
// clearing between conflicts — a fresh stamp domain falls out for free.
type Analyzer struct {
	assign  *AssignStore
	clauses *ClauseStore
	stamp   []uint64 // 1-indexed by Var
}

func NewAnalyzer(assign *AssignStore, clauses *ClauseStore) *Analyzer {
	return &Analyzer{
		assign:  assign,
		clauses: clauses,
		stamp:   make([]uint64, assign.NumVars()+1),
	}
}

// ClearStamp resets v's stamp so a stale value from a previous conflict
// cannot spuriously match a future token, per §4.6 step 3. With strictly
// monotonic tokens this can never actually happen, but it costs nothing
// and the spec calls for it explicitly.
func (a *Analyzer) ClearStamp(v Var) {
	a.stamp[v] = 0
}

// Analyze runs the algorithm of §4.5. token must be the current conflict
// count (a fresh value never used for a previous analysis). In debug builds
// it panics via the invariant helper if invoked at level 0 or if the trail
// is exhausted
// before a UIP is found — both are bugs the caller (the search driver)
// must never allow to happen (level 0 is handled by the driver returning
// UNSAT directly, without calling the analyzer).
func (a *Analyzer) Analyze(conflict ClauseRef, token uint64) (learnt []Lit, backjumpLevel int, uip Lit) {
	level := a.assign.DecisionLevel()
	invariant(level >= 1, "Analyze invoked at level 0")

	current := 0
	var tail []Lit // stamped literals at a level < L: the learned clause's non-UIP literals, already in clause (false) form

	bump := func(l Lit) {
		v := l.Var()
		if a.assign.Level(v) == 0 || a.stamp[v] == token {
			return
		}
		a.stamp[v] = token
		if a.assign.Level(v) == level {
			current++
		} else {
			tail = append(tail, l)
		}
	}

	for _, l := range a.clauses.Get(conflict).Lits() {
		bump(l)
	}

	trail := a.assign.Trail()
	idx := len(trail) - 1
	var p Lit
	for {
		for {
			invariant(idx >= 0, "reached the trail bottom without finding a UIP")
			p = trail[idx]
			idx--
			if a.stamp[p.Var()] == token {
				break
			}
		}
		if current == 1 {
			break
		}
		reason := a.assign.Antecedent(p.Var())
		invariant(reason != NoClause, "stamped decision literal encountered before current reached 1")
		for _, l := range a.clauses.Get(reason).Lits() {
			bump(l)
		}
		current--
	}

	uip = p.Negate()
	learnt = make([]Lit, 0, len(tail)+1)
	learnt = append(learnt, uip)
	learnt = append(learnt, tail...)

	learnt = a.minimize(learnt, token)

	backjumpLevel = 0
	if len(learnt) > 1 {
		maxIdx := 1
		for i := 2; i < len(learnt); i++ {
			if a.assign.Level(learnt[i].Var()) > a.assign.Level(learnt[maxIdx].Var()) {
				maxIdx = i
			}
		}
		backjumpLevel = a.assign.Level(learnt[maxIdx].Var())
		learnt[1], learnt[maxIdx] = learnt[maxIdx], learnt[1]
	}

	return learnt, backjumpLevel, uip
}

// minimize applies the self-subsumption pass of §4.5: a non-UIP literal l
// is dropped when every other literal of l's antecedent is already present
// (up to sign, i.e. its variable is stamped) in the candidate clause, or is
// assigned at level 0. The UIP (index 0) and any literal whose antecedent
// is a decision (none) are never candidates for removal.
func (a *Analyzer) minimize(candidate []Lit, token uint64) []Lit {
	kept := candidate[:1:1]
	for i := 1; i < len(candidate); i++ {
		l := candidate[i]
		reason := a.assign.Antecedent(l.Var())
		if reason == NoClause {
			kept = append(kept, l)
			continue
		}
		redundant := true
		for _, m := range a.clauses.Get(reason).Lits() {
			if m.Var() == l.Var() {
				continue
			}
			if a.stamp[m.Var()] != token && a.assign.Level(m.Var()) != 0 {
				redundant = false
				break
			}
		}
		if !redundant {
			kept = append(kept, l)
		}
	}
	return kept
}
