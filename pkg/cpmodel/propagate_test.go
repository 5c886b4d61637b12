package cpmodel

import "testing"

func TestPropagate_TightensBoolSum(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar()
	y := m.NewBoolVar()
	m.NewConstraint(Equal, 1).NewTerm(1, x).NewTerm(1, y)

	domains := []domain{{0, 1}, {0, 1}}
	_, ok := propagate(m, domains)
	if !ok {
		t.Fatal("expected feasible propagation")
	}
}

func TestPropagate_DetectsContradiction(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar()
	m.NewConstraint(GreaterThanOrEqual, 2).NewTerm(1, x)

	domains := []domain{{0, 1}}
	_, ok := propagate(m, domains)
	if ok {
		t.Fatal("expected infeasible propagation")
	}
}

func TestPropagate_FixesSingleVarFromEquality(t *testing.T) {
	m := NewModel()
	x := m.NewIntVar(0, 10)
	m.NewConstraint(Equal, 7).NewTerm(1, x)

	domains, ok := propagate(m, []domain{{0, 10}})
	if !ok {
		t.Fatal("expected feasible propagation")
	}
	if !domains[0].fixed() || domains[0][0] != 7 {
		t.Fatalf("expected x fixed to 7, got %v", domains[0])
	}
}

func TestPropagate_NegativeCoefficientTightening(t *testing.T) {
	// -x <= -3  =>  x >= 3
	m := NewModel()
	x := m.NewIntVar(0, 10)
	m.NewConstraint(LessThanOrEqual, -3).NewTerm(-1, x)

	domains, ok := propagate(m, []domain{{0, 10}})
	if !ok {
		t.Fatal("expected feasible propagation")
	}
	if domains[0][0] != 3 {
		t.Fatalf("expected lower bound 3, got %v", domains[0])
	}
}
