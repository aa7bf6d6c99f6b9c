package cdcl

// varInfo is the per-variable state the assignment store tracks: value is
// live only while the variable is assigned; level and antecedent are left
// as dead data across an unassign, per §4.1 (unassign "leaves level/
// antecedent fields as dead data").
type varInfo struct {
	value      Value
	level      int
	antecedent ClauseRef
}

// AssignStore is the assignment store of §4.1/§3: per-literal truth value,
// per-variable decision level and antecedent, and the assignment trail.
// Only assign/unassign/backtrack/decide mutate the trail and decision
// stack; the analyzer reads but never writes them.
type AssignStore struct {
	n       int
	vars    []varInfo // 1-indexed by Var; vars[0] unused
	trail   []Lit
	control []int // decision stack: control[k] = trail index where level k+1 began
	cursor  int   // propagation cursor: next trail index to propagate

	fixedCount int // variables assigned at level 0, for reporting only
}

func NewAssignStore(n int) *AssignStore {
	return &AssignStore{
		n:    n,
		vars: make([]varInfo, n+1),
	}
}

func (a *AssignStore) NumVars() int { return a.n }

func (a *AssignStore) NumAssigned() int { return len(a.trail) }

// DecisionLevel is the number of decisions currently on the trail.
func (a *AssignStore) DecisionLevel() int { return len(a.control) }

// Value returns the truth value of a literal in O(1).
func (a *AssignStore) Value(l Lit) Value {
	v := a.vars[l.Var()].value
	if v == Undef {
		return Undef
	}
	isTrue := v == True
	if l.Negative() {
		isTrue = !isTrue
	}
	if isTrue {
		return True
	}
	return False
}

// ValueOfVar returns the raw truth value of a variable (ignoring any
// literal sign), used by the decider to find unassigned variables.
func (a *AssignStore) ValueOfVar(v Var) Value {
	return a.vars[v].value
}

func (a *AssignStore) Level(v Var) int { return a.vars[v].level }

func (a *AssignStore) Antecedent(v Var) ClauseRef { return a.vars[v].antecedent }

// Trail returns the assignment trail.
func (a *AssignStore) Trail() []Lit { return a.trail }

func (a *AssignStore) Cursor() int       { return a.cursor }
func (a *AssignStore) SetCursor(c int)   { a.cursor = c }
func (a *AssignStore) AdvanceCursor() Lit {
	l := a.trail[a.cursor]
	a.cursor++
	return l
}

// Assign sets lit true: precondition, the variable of lit is unassigned.
// Records the current decision level and antecedent, appends lit to the
// trail, and bumps the fixed-variable counter when assigned at level 0.
func (a *AssignStore) Assign(lit Lit, antecedent ClauseRef) {
	v := lit.Var()
	invariant(a.vars[v].value == Undef, "double assignment", v)
	value := True
	if lit.Negative() {
		value = False
	}
	level := a.DecisionLevel()
	a.vars[v] = varInfo{value: value, level: level, antecedent: antecedent}
	a.trail = append(a.trail, lit)
	if level == 0 {
		a.fixedCount++
	}
}

// Unassign clears a currently-true literal's value. Precondition: lit is
// currently true.
func (a *AssignStore) Unassign(lit Lit) {
	v := lit.Var()
	invariant(a.Value(lit) == True, "unassign of a literal that is not true", v)
	a.vars[v].value = Undef
}

// NewDecisionLevel pushes the current trail length onto the decision
// stack, incrementing the decision level.
func (a *AssignStore) NewDecisionLevel() {
	a.control = append(a.control, len(a.trail))
}

// LevelStart returns the trail index at which decision level (lvl+1) began,
// i.e. control[lvl].
func (a *AssignStore) LevelStart(lvl int) int { return a.control[lvl] }

// TruncateControl drops decision-stack entries above lvl, leaving exactly
// lvl entries (decision level lvl).
func (a *AssignStore) TruncateControl(lvl int) { a.control = a.control[:lvl] }

// TruncateTrail drops trail entries from index i onward.
func (a *AssignStore) TruncateTrail(i int) { a.trail = a.trail[:i] }

func (a *AssignStore) FixedCount() int { return a.fixedCount }
