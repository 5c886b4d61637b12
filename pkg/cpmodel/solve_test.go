package cpmodel

import (
	"testing"
	"time"
)

func TestSolve_SimpleFeasible(t *testing.T) {
	// x + y == 1, x,y booleans, minimize x (expect x=0, y=1, objective 0).
	m := NewModel()
	x := m.NewBoolVar()
	y := m.NewBoolVar()
	m.NewConstraint(Equal, 1).NewTerm(1, x).NewTerm(1, y)
	m.Objective().NewTerm(1, x)

	sol, err := NewSolver(m).Solve(SolveOptions{MaxTime: time.Second, Workers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Status() != StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %v", sol.Status())
	}
	if sol.Value(x) != 0 || sol.Value(y) != 1 {
		t.Fatalf("expected x=0,y=1, got x=%d,y=%d", sol.Value(x), sol.Value(y))
	}
	if sol.ObjectiveValue() != 0 {
		t.Fatalf("expected objective 0, got %v", sol.ObjectiveValue())
	}
}

func TestSolve_Infeasible(t *testing.T) {
	// x in {0,1}, x >= 2 is infeasible.
	m := NewModel()
	x := m.NewBoolVar()
	m.NewConstraint(GreaterThanOrEqual, 2).NewTerm(1, x)

	sol, err := NewSolver(m).Solve(SolveOptions{MaxTime: time.Second, Workers: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Status() != StatusInfeasible {
		t.Fatalf("expected INFEASIBLE, got %v", sol.Status())
	}
}

func TestSolve_ModelInvalid(t *testing.T) {
	m := NewModel()
	m.NewIntVar(5, 2) // lb > ub

	sol, err := NewSolver(m).Solve(SolveOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Status() != StatusModelInvalid {
		t.Fatalf("expected MODEL_INVALID, got %v", sol.Status())
	}
}

func TestSolve_IndicatorConstraintOnlyAppliesWhenGuardActive(t *testing.T) {
	// guard is forced to 1, so x must then be forced to 0 by the indicator
	// constraint x <= 0.
	m := NewModel()
	guard := m.NewBoolVar()
	x := m.NewIntVar(0, 5)
	m.NewConstraint(Equal, 1).NewTerm(1, guard)
	m.NewIndicatorConstraint(guard, LessThanOrEqual, 0).NewTerm(1, x)
	m.Objective().NewTerm(-1, x) // maximize x by minimizing -x

	sol, err := NewSolver(m).Solve(SolveOptions{MaxTime: time.Second, Workers: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Status() != StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %v", sol.Status())
	}
	if sol.Value(x) != 0 {
		t.Fatalf("expected x=0 under active indicator constraint, got %d", sol.Value(x))
	}
}

func TestSolve_IndicatorConstraintSkippedWhenGuardInactive(t *testing.T) {
	// guard forced to 0: the indicator constraint x <= 0 must not apply, so
	// minimizing -x should drive x to its upper bound 5.
	m := NewModel()
	guard := m.NewBoolVar()
	x := m.NewIntVar(0, 5)
	m.NewConstraint(Equal, 0).NewTerm(1, guard)
	m.NewIndicatorConstraint(guard, LessThanOrEqual, 0).NewTerm(1, x)
	m.Objective().NewTerm(-1, x)

	sol, err := NewSolver(m).Solve(SolveOptions{MaxTime: time.Second, Workers: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Status() != StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %v", sol.Status())
	}
	if sol.Value(x) != 5 {
		t.Fatalf("expected x=5 with inactive indicator constraint, got %d", sol.Value(x))
	}
}

func TestSolve_MinimizeSumWithCoverage(t *testing.T) {
	// three booleans, at least two must be 1, minimize their sum => exactly 2.
	m := NewModel()
	vars := make([]Var, 3)
	for i := range vars {
		vars[i] = m.NewBoolVar()
	}
	cons := m.NewConstraint(GreaterThanOrEqual, 2)
	obj := m.Objective()
	for _, v := range vars {
		cons.NewTerm(1, v)
		obj.NewTerm(1, v)
	}

	sol, err := NewSolver(m).Solve(SolveOptions{MaxTime: time.Second, Workers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Status() != StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %v", sol.Status())
	}
	if sol.ObjectiveValue() != 2 {
		t.Fatalf("expected objective 2, got %v", sol.ObjectiveValue())
	}
	sum := 0
	for _, v := range vars {
		sum += sol.Value(v)
	}
	if sum != 2 {
		t.Fatalf("expected exactly 2 booleans set, got %d", sum)
	}
}
