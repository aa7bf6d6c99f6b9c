package cdcl

// Decider picks the next branching literal. It implements §4.6's
// deterministic, fixed-order heuristic (smallest unassigned index,
// positive phase) rather than an activity-based scheme — the Non-goals
// explicitly exclude floating-point activity scoring, so there is no
// VSIDS-style heap here.
type Decider struct {
	n        int
	searched Var // the smallest variable index not yet known to be assigned
}

func NewDecider(n int) *Decider {
	return &Decider{n: n, searched: 1}
}

// Pick advances the searched cursor past already-assigned variables and
// returns the next unassigned variable, or false if none remains (the
// formula is totally assigned).
func (d *Decider) Pick(value func(Var) Value) (Var, bool) {
	for d.searched <= Var(d.n) && value(d.searched) != Undef {
		d.searched++
	}
	if d.searched > Var(d.n) {
		return 0, false
	}
	return d.searched, true
}

// NotifyUnassigned must be called whenever backtrack unassigns a variable:
// if it lowers the gap below the current cursor, the cursor is pulled back
// down so the next Pick finds it.
func (d *Decider) NotifyUnassigned(v Var) {
	if v < d.searched {
		d.searched = v
	}
}
