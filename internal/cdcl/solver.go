// Package cdcl implements the core CDCL (Conflict-Driven Clause Learning)
// decision procedure for propositional satisfiability: two-watched-literal
// unit propagation, first-UIP conflict analysis with self-subsumption
// minimization, non-chronological backjumping, and a deterministic
// decision heuristic.
//
// Everything outside this package — the DIMACS parser, the CLI, progress
// and signal handling, the model printer and checker — is an external
// collaborator; such collaborators drive the search through Solver (New,
// AddClause, Solve, Model, Stats).
package cdcl

// Result is the outcome of a solve: satisfiable with a witness, provably
// unsatisfiable, or unknown because the conflict budget ran out.
type Result int

const (
	Unknown Result = iota
	Satisfiable
	Unsatisfiable
)

func (r Result) String() string {
	switch r {
	case Satisfiable:
		return "SATISFIABLE"
	case Unsatisfiable:
		return "UNSATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

// Solver glues together the assignment store, clause store, watch index,
// propagator, analyzer, and decider into the state machine of §4.7.
type Solver struct {
	assign   *AssignStore
	clauses  *ClauseStore
	watches  *WatchIndex
	prop     *Propagator
	analyzer *Analyzer
	decider  *Decider
	Stats    Statistics

	emptyClauseFound bool
	model            []Value // 1-indexed by Var once Solve returns Satisfiable
	trace            func(Event)
}

// New creates a solver for n variables, numbered 1..n.
func New(n int) *Solver {
	assign := NewAssignStore(n)
	clauses := NewClauseStore()
	watches := NewWatchIndex(n)
	s := &Solver{
		assign:   assign,
		clauses:  clauses,
		watches:  watches,
		analyzer: NewAnalyzer(assign, clauses),
		decider:  NewDecider(n),
	}
	s.prop = NewPropagator(assign, clauses, watches, &s.Stats)
	return s
}

// NumVars returns the number of variables the solver was built for.
func (s *Solver) NumVars() int { return s.assign.NumVars() }

// AddClause implements §4.2's add operation for an original clause. It must
// only be called before the first call to Solve (i.e. at decision level 0);
// this is a non-incremental, assumption-free solver per the Non-goals.
func (s *Solver) AddClause(lits []Lit) {
	if s.emptyClauseFound {
		return
	}
	invariant(s.assign.DecisionLevel() == 0, "AddClause called mid-search")

	_, outcome := s.clauses.Add(s.assign, s.watches, lits)
	switch outcome {
	case OutcomeEmptyClauseFound:
		s.emptyClauseFound = true
	case OutcomeUnitAsserted:
		if _, conflict := s.prop.Propagate(); conflict {
			s.emptyClauseFound = true
		}
	case OutcomeClauseAdded:
		s.Stats.OriginalClauses++
	}
}

// Hooks lets an external collaborator observe the search without the core
// ever becoming concurrent itself: Canceled and Progress are polled
// synchronously, once per iteration of the search loop (§5 — "the external
// conflict budget (polled between decisions and between propagation
// rounds)" generalizes to any external cancellation source), and Trace is
// called synchronously for each search event. Any field may be left nil.
type Hooks struct {
	// Canceled is polled once per iteration of the search loop; when it
	// returns true, Solve returns Unknown immediately, leaving solver
	// state consistent so statistics can still be read (§7: "Budget
	// exhaustion is surfaced to the caller cleanly, leaving solver state
	// consistent" — the same guarantee extends to any other cancellation
	// source that uses this hook).
	Canceled func() bool
	// Progress is called once per iteration with the current statistics.
	// It is the caller's responsibility to throttle how often it actually
	// does anything with them; Solve makes no attempt to rate-limit calls
	// to it itself.
	Progress func(Statistics)
	// Trace, if set, receives every assign/decide/conflict/unassign event
	// of the search, in order, for a collaborator (internal/tracecheck) to
	// replay against the original CNF and confirm every step was legal.
	Trace func(Event)
}

// Solve runs the search driver of §4.7. conflictLimit < 0 means
// effectively unbounded; otherwise Solve returns Unknown once
// s.Stats.Conflicts reaches it. The conflict budget, hooks.Canceled, and
// hooks.Progress are all polled at the same two points: between decisions
// and between propagation rounds. There are no other suspension points —
// the core never spawns a goroutine or blocks on anything besides these
// polls, keeping the search strictly single-threaded per §5.
func (s *Solver) Solve(conflictLimit int, hooks Hooks) Result {
	if s.emptyClauseFound {
		return Unsatisfiable
	}

	s.trace = hooks.Trace
	if s.trace != nil {
		// Replay whatever AddClause's own unit propagation already put on
		// the trail before a Trace subscriber existed to see it, so a
		// collaborator replaying the trace from scratch has the same
		// starting assignments the solver does.
		for _, l := range s.assign.Trail() {
			s.trace(Event{Kind: EventAssign, Lit: l, Level: s.assign.Level(l.Var())})
		}
		s.prop.SetTrace(func(l Lit) { s.trace(Event{Kind: EventAssign, Lit: l, Level: s.assign.DecisionLevel()}) })
		defer s.prop.SetTrace(nil)
	}

	for {
		if hooks.Progress != nil {
			hooks.Progress(s.Stats)
		}
		if hooks.Canceled != nil && hooks.Canceled() {
			return Unknown
		}

		conflict, hasConflict := s.prop.Propagate()
		if hasConflict {
			s.Stats.Conflicts++
			if s.trace != nil {
				s.trace(Event{Kind: EventConflict})
			}
			if s.assign.DecisionLevel() == 0 {
				return Unsatisfiable
			}
			s.analyzeAndLearn(conflict)
			continue
		}

		if s.assign.NumAssigned() == s.assign.NumVars() {
			s.captureModel()
			return Satisfiable
		}
		if conflictLimit >= 0 && int(s.Stats.Conflicts) >= conflictLimit {
			return Unknown
		}

		v, ok := s.decider.Pick(s.assign.ValueOfVar)
		if !ok {
			s.captureModel()
			return Satisfiable
		}
		s.Stats.Decisions++
		s.assign.NewDecisionLevel()
		s.analyzer.ClearStamp(v)
		decided := NewLit(v, false)
		s.assign.Assign(decided, NoClause)
		if s.trace != nil {
			s.trace(Event{Kind: EventDecide, Lit: decided, Level: s.assign.DecisionLevel()})
		}
	}
}

func (s *Solver) analyzeAndLearn(conflict ClauseRef) {
	learnt, backjumpLevel, uip := s.analyzer.Analyze(conflict, s.Stats.Conflicts)

	if s.assign.DecisionLevel()-backjumpLevel > 1 {
		s.Stats.Backjumps++
	}
	s.backtrack(backjumpLevel)

	if len(learnt) == 1 {
		s.assign.Assign(uip, NoClause)
		if s.trace != nil {
			s.trace(Event{Kind: EventAssign, Lit: uip, Level: s.assign.DecisionLevel()})
		}
		return
	}
	ref := s.clauses.AddLearned(s.watches, learnt)
	s.Stats.LearntClauses++
	s.assign.Assign(uip, ref)
	if s.trace != nil {
		s.trace(Event{Kind: EventAssign, Lit: uip, Level: s.assign.DecisionLevel()})
	}
}

// backtrack implements §4.1/§4.6's unassign sequencing: unassign every
// trail literal above the target level, in strict reverse order, notifying
// the decider of each so its search cursor can fall back to the gap.
func (s *Solver) backtrack(level int) {
	if s.assign.DecisionLevel() <= level {
		return
	}
	cut := s.assign.LevelStart(level)
	trail := s.assign.Trail()
	for i := len(trail) - 1; i >= cut; i-- {
		lit := trail[i]
		if s.trace != nil {
			s.trace(Event{Kind: EventUnassign, Lit: lit, Level: s.assign.Level(lit.Var())})
		}
		s.assign.Unassign(lit)
		s.decider.NotifyUnassigned(lit.Var())
	}
	s.assign.SetCursor(cut)
	s.assign.TruncateTrail(cut)
	s.assign.TruncateControl(level)
}

func (s *Solver) captureModel() {
	s.model = make([]Value, s.assign.NumVars()+1)
	for v := 1; v <= s.assign.NumVars(); v++ {
		val := s.assign.ValueOfVar(Var(v))
		if val == Undef {
			// Variables the search never touched (e.g. pure literals
			// eliminated entirely by unit propagation of other clauses)
			// default to positive, per §6's output format.
			val = True
		}
		s.model[v] = val
	}
}

// Model returns the satisfying assignment after a Satisfiable result:
// Model()[v] is True or False for variable v in [1, NumVars()].
func (s *Solver) Model() []Value { return s.model }

// FixedCount returns the number of variables assigned at decision level 0,
// for statistics reporting only (§4.1).
func (s *Solver) FixedCount() int { return s.assign.FixedCount() }
