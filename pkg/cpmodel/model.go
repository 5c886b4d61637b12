// Package cpmodel defines a small constraint-programming model contract —
// boolean/bounded-integer variables, linear (in)equalities, indicator-
// enforced constraints, and a linear objective — shaped after the real
// CP-SAT backend that spec.md §1/§6 declares an external, out-of-scope
// collaborator. It ships one reference implementation (a bounds-
// propagating branch-and-bound search) so the module is self-contained
// and testable; a production deployment swaps this package out for a
// binding to the real solver behind the identical Model/Solver contract.
package cpmodel

// Var is an opaque handle to a decision variable. Two Vars compare equal
// iff they refer to the same variable of the same Model.
type Var struct {
	model *Model
	id    int
}

// Sense is the comparison operator of a linear constraint.
type Sense int

const (
	LessThanOrEqual Sense = iota
	GreaterThanOrEqual
	Equal
)

// Model accumulates variables, constraints, and an objective. It is built
// once per compile_and_solve invocation and handed to a Solver; nothing
// persists across invocations (spec.md §5 "Global mutable state → none").
type Model struct {
	lb, ub  []int
	valid   bool
	cons    []linConstraint
	indCons []indicatorConstraint
	obj     []term
}

type term struct {
	coef float64
	v    Var
}

type linConstraint struct {
	terms []term
	sense Sense
	bound float64
}

type indicatorConstraint struct {
	indicator Var
	terms     []term
	sense     Sense
	bound     float64
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{valid: true}
}

// NewBoolVar declares a boolean decision variable (domain {0,1}).
func (m *Model) NewBoolVar() Var {
	return m.newVar(0, 1)
}

// NewIntVar declares a bounded integer decision variable. lb > ub marks
// the model invalid; Solve will report StatusModelInvalid rather than
// panic, mirroring a real backend's model-build-time validation.
func (m *Model) NewIntVar(lb, ub int) Var {
	return m.newVar(lb, ub)
}

func (m *Model) newVar(lb, ub int) Var {
	if lb > ub {
		m.valid = false
	}
	m.lb = append(m.lb, lb)
	m.ub = append(m.ub, ub)
	return Var{model: m, id: len(m.lb) - 1}
}

// NumVars reports how many variables have been declared.
func (m *Model) NumVars() int {
	return len(m.lb)
}

// Constraint is a builder for a linear (in)equality: Σ coef·var `sense` bound.
type Constraint struct {
	model *Model
	kind  constraintKind
	idx   int
}

type constraintKind int

const (
	kindLinear constraintKind = iota
	kindIndicator
)

// NewConstraint starts an unconditional linear constraint.
func (m *Model) NewConstraint(sense Sense, bound float64) *Constraint {
	m.cons = append(m.cons, linConstraint{sense: sense, bound: bound})
	return &Constraint{model: m, kind: kindLinear, idx: len(m.cons) - 1}
}

// NewIndicatorConstraint starts a linear constraint active only when
// indicator == 1 (spec.md's "indicator-enforced constraint").
func (m *Model) NewIndicatorConstraint(indicator Var, sense Sense, bound float64) *Constraint {
	m.indCons = append(m.indCons, indicatorConstraint{indicator: indicator, sense: sense, bound: bound})
	return &Constraint{model: m, kind: kindIndicator, idx: len(m.indCons) - 1}
}

// NewTerm adds coef·v to the constraint's left-hand side and returns the
// same builder for chaining.
func (c *Constraint) NewTerm(coef float64, v Var) *Constraint {
	t := term{coef: coef, v: v}
	switch c.kind {
	case kindLinear:
		c.model.cons[c.idx].terms = append(c.model.cons[c.idx].terms, t)
	case kindIndicator:
		c.model.indCons[c.idx].terms = append(c.model.indCons[c.idx].terms, t)
	}
	return c
}

// Objective accumulates the linear expression to minimize.
type Objective struct {
	model *Model
}

// Objective returns the model's objective builder. The model always
// minimizes (spec.md never requires maximization).
func (m *Model) Objective() *Objective {
	return &Objective{model: m}
}

// NewTerm adds coef·v to the objective and returns the builder for chaining.
func (o *Objective) NewTerm(coef float64, v Var) *Objective {
	o.model.obj = append(o.model.obj, term{coef: coef, v: v})
	return o
}
