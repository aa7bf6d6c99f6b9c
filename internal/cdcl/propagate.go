package cdcl

// Propagator processes the trail, maintains watches, and detects unit
// assignments and conflicts via two-watched-literals.
type Propagator struct {
	assign  *AssignStore
	clauses *ClauseStore
	watches *WatchIndex
	stats   *Statistics
	trace   func(Lit)
}

func NewPropagator(assign *AssignStore, clauses *ClauseStore, watches *WatchIndex, stats *Statistics) *Propagator {
	return &Propagator{assign: assign, clauses: clauses, watches: watches, stats: stats}
}

// SetTrace installs (or, with nil, removes) a callback invoked with every
// literal this propagator assigns. It exists so Solve can forward a
// Hooks.Trace subscriber without the propagator knowing anything about
// Hooks itself.
func (p *Propagator) SetTrace(trace func(Lit)) { p.trace = trace }

// Propagate implements §4.4. It returns the conflicting clause's handle and
// true on conflict, or NoClause and false once the cursor catches up to the
// trail. A conflict aborts the remainder of the current literal's watch
// scan; propagation of one trail literal otherwise always runs to
// completion before the next is considered.
func (p *Propagator) Propagate() (ClauseRef, bool) {
	for p.assign.Cursor() < len(p.assign.Trail()) {
		lit := p.assign.AdvanceCursor()
		falseLit := lit.Negate()

		list := p.watches.ListPtr(falseLit)
		i, j := 0, 0
		for i < len(*list) {
			ref := (*list)[i]
			i++
			c := p.clauses.Get(ref)

			// Make sure the false literal sits at position 1.
			if c.lits[0] == falseLit {
				c.lits[0], c.lits[1] = c.lits[1], c.lits[0]
			}
			other := c.lits[0]

			p.stats.Propagations++

			if other != falseLit && p.assign.Value(other) == True {
				// Already satisfied: keep the watch on falseLit unchanged.
				(*list)[j] = ref
				j++
				continue
			}

			found := false
			for k := 2; k < len(c.lits); k++ {
				if p.assign.Value(c.lits[k]) != False {
					c.lits[1], c.lits[k] = c.lits[k], c.lits[1]
					p.watches.Append(c.lits[1], ref)
					found = true
					break
				}
			}
			if found {
				continue
			}

			// No replacement: retain the watch on falseLit.
			(*list)[j] = ref
			j++

			if p.assign.Value(other) == False {
				// Conflict: stop immediately, copy the remaining watchers
				// back so none are lost, and leave the cursor as-is for
				// the caller to reset.
				for i < len(*list) {
					(*list)[j] = (*list)[i]
					i++
					j++
				}
				*list = (*list)[:j]
				return ref, true
			}

			p.assign.Assign(other, ref)
			if p.trace != nil {
				p.trace(other)
			}
		}
		*list = (*list)[:j]
	}
	return NoClause, false
}
