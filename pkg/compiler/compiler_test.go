package compiler

import (
	"testing"
	"time"

	"github.com/paiban/shiftsat/pkg/cpmodel"
	"github.com/paiban/shiftsat/pkg/dslmodel"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func solve(t *testing.T, model *cpmodel.Model) *cpmodel.Solution {
	t.Helper()
	sol, err := cpmodel.NewSolver(model).Solve(cpmodel.SolveOptions{MaxTime: 5 * time.Second, Workers: 2})
	if err != nil {
		t.Fatalf("unexpected solver error: %v", err)
	}
	return sol
}

func trivialCoverageSpec() dslmodel.Spec {
	return dslmodel.Spec{
		Sets: dslmodel.Sets{
			Employees: []string{"P1"},
			Days:      []string{"D1"},
			Shifts:    []string{"OFF", "M"},
			Sites:     []string{"SITE_DEFAULT"},
		},
		Shifts: map[string]dslmodel.Shift{
			"M": {Start: "08:00", End: "16:00", Minutes: 480, IsWork: boolPtr(true)},
		},
		Employees: map[string]dslmodel.Employee{"P1": {}},
		Demand: []dslmodel.Demand{
			{Day: "D1", Shift: "M", Eq: intPtr(1)},
		},
	}
}

func TestCompile_TrivialCoverage(t *testing.T) {
	spec := trivialCoverageSpec()
	model, vt, err := Compile(spec)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	sol := solve(t, model)
	if sol.Status() != cpmodel.StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %v", sol.Status())
	}
	e, _ := vt.EmployeeIndex("P1")
	d, _ := vt.DayIndex("D1")
	s, _ := vt.ShiftIndex("M")
	site, _ := vt.SiteIndex("SITE_DEFAULT")
	if !sol.BoolValue(vt.X(e, d, s, site)) {
		t.Fatal("expected P1 assigned to M on D1")
	}
	if sol.ObjectiveValue() != 0 {
		t.Fatalf("expected objective 0, got %v", sol.ObjectiveValue())
	}
}

func TestCompile_InfeasibleCoverage(t *testing.T) {
	spec := trivialCoverageSpec()
	spec.Sets.Employees = []string{"P1", "P2"}
	spec.Employees = map[string]dslmodel.Employee{"P1": {}, "P2": {}}
	spec.Demand = []dslmodel.Demand{{Day: "D1", Shift: "M", Eq: intPtr(3)}}
	spec.Constraints = []dslmodel.Constraint{
		{ID: "c1", Type: dslmodel.TypeHard, Kind: dslmodel.KindExactlyOneAssignmentPerDay},
	}

	model, _, err := Compile(spec)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	sol := solve(t, model)
	if sol.Status() != cpmodel.StatusInfeasible {
		t.Fatalf("expected INFEASIBLE, got %v", sol.Status())
	}
}

func TestCompile_ForbiddenSequence(t *testing.T) {
	spec := dslmodel.Spec{
		Sets: dslmodel.Sets{
			Employees: []string{"P1"},
			Days:      []string{"D1", "D2"},
			Shifts:    []string{"OFF", "M", "N"},
			Sites:     []string{"SITE_DEFAULT"},
		},
		Shifts: map[string]dslmodel.Shift{
			"M": {Start: "08:00", End: "16:00", Minutes: 480, IsWork: boolPtr(true)},
			"N": {Start: "16:00", End: "23:59", Minutes: 480, IsWork: boolPtr(true)},
		},
		Employees: map[string]dslmodel.Employee{"P1": {}},
		Demand: []dslmodel.Demand{
			{Day: "D1", Shift: "M", Eq: intPtr(1)},
			{Day: "D2", Shift: "N", Eq: intPtr(1)},
		},
		Constraints: []dslmodel.Constraint{
			{ID: "c1", Type: dslmodel.TypeHard, Kind: dslmodel.KindExactlyOneAssignmentPerDay},
			{
				ID:   "c2",
				Type: dslmodel.TypeHard,
				Kind: dslmodel.KindForbidShiftSequences,
				Data: dslmodel.JSONMap{
					"forbidden_pairs": []interface{}{
						map[string]interface{}{"prev_shift": "M", "next_shift": "N"},
					},
				},
			},
		},
	}

	model, _, err := Compile(spec)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	sol := solve(t, model)
	if sol.Status() != cpmodel.StatusInfeasible {
		t.Fatalf("expected INFEASIBLE, got %v", sol.Status())
	}
}

func minRestSpec(threshold int) dslmodel.Spec {
	return dslmodel.Spec{
		Sets: dslmodel.Sets{
			Employees: []string{"P1"},
			Days:      []string{"D1", "D2"},
			Shifts:    []string{"OFF", "M", "N"},
			Sites:     []string{"SITE_DEFAULT"},
		},
		Shifts: map[string]dslmodel.Shift{
			"M": {Start: "08:00", End: "16:00", Minutes: 480, IsWork: boolPtr(true)},
			"N": {Start: "00:00", End: "08:00", Minutes: 480, IsWork: boolPtr(true)},
		},
		Employees: map[string]dslmodel.Employee{"P1": {}},
		Demand: []dslmodel.Demand{
			{Day: "D1", Shift: "M", Eq: intPtr(1)},
			{Day: "D2", Shift: "N", Eq: intPtr(1)},
		},
		Constraints: []dslmodel.Constraint{
			{ID: "c1", Type: dslmodel.TypeHard, Kind: dslmodel.KindExactlyOneAssignmentPerDay},
			{
				ID:   "c2",
				Type: dslmodel.TypeHard,
				Kind: dslmodel.KindMinRestMinutesBetweenShifts,
				Data: dslmodel.JSONMap{"min_rest_minutes": float64(threshold)},
			},
		},
	}
}

func TestCompile_MinRest_ForbiddenAtHighThreshold(t *testing.T) {
	model, _, err := Compile(minRestSpec(720))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	sol := solve(t, model)
	if sol.Status() != cpmodel.StatusInfeasible {
		t.Fatalf("expected INFEASIBLE at threshold 720, got %v", sol.Status())
	}
}

func TestCompile_MinRest_FeasibleAtLowThreshold(t *testing.T) {
	model, _, err := Compile(minRestSpec(480))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	sol := solve(t, model)
	if sol.Status() != cpmodel.StatusOptimal {
		t.Fatalf("expected OPTIMAL at threshold 480, got %v", sol.Status())
	}
}

func TestCompile_UnknownKindErrors(t *testing.T) {
	spec := trivialCoverageSpec()
	spec.Constraints = []dslmodel.Constraint{
		{ID: "c1", Type: dslmodel.TypeHard, Kind: "not_a_real_kind"},
	}
	if _, _, err := Compile(spec); err == nil {
		t.Fatal("expected an error for an unsupported kind")
	}
}

func TestCompile_MissingPayloadField(t *testing.T) {
	spec := trivialCoverageSpec()
	spec.Constraints = []dslmodel.Constraint{
		{ID: "c1", Type: dslmodel.TypeHard, Kind: dslmodel.KindMaxShiftsInWindow},
	}
	if _, _, err := Compile(spec); err == nil {
		t.Fatal("expected an error for a missing window_days field")
	}
}

func TestCompile_SoftDayOffHonoured(t *testing.T) {
	days := []string{"D1", "D2", "D3", "D4", "D5", "D6", "D7"}
	demand := make([]dslmodel.Demand, 0, len(days))
	for _, d := range days {
		demand = append(demand, dslmodel.Demand{Day: d, Shift: "M", Eq: intPtr(1)})
	}

	spec := dslmodel.Spec{
		Sets: dslmodel.Sets{
			Employees: []string{"P1", "P2"},
			Days:      days,
			Shifts:    []string{"OFF", "M"},
			Sites:     []string{"SITE_DEFAULT"},
		},
		Shifts: map[string]dslmodel.Shift{
			"M": {Start: "08:00", End: "16:00", Minutes: 480, IsWork: boolPtr(true)},
		},
		Employees: map[string]dslmodel.Employee{"P1": {}, "P2": {}},
		Demand:    demand,
		Constraints: []dslmodel.Constraint{
			{ID: "c1", Type: dslmodel.TypeHard, Kind: dslmodel.KindExactlyOneAssignmentPerDay},
			{
				ID:      "c2",
				Type:    dslmodel.TypeSoft,
				Kind:    dslmodel.KindPenalizeUnmetDayOffRequests,
				Scope:   dslmodel.Scope{Employees: dslmodel.EmployeeScope{List: []string{"P1"}}},
				Data:    dslmodel.JSONMap{"days": []interface{}{"D3"}},
				Penalty: &dslmodel.Penalty{Weight: 10},
			},
		},
	}

	model, vt, err := Compile(spec)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	sol := solve(t, model)
	if sol.Status() != cpmodel.StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %v", sol.Status())
	}
	if sol.ObjectiveValue() != 0 {
		t.Fatalf("expected objective 0, got %v", sol.ObjectiveValue())
	}
	p1, _ := vt.EmployeeIndex("P1")
	d3, _ := vt.DayIndex("D3")
	if !sol.BoolValue(vt.Off(p1, d3)) {
		t.Fatal("expected P1 off on D3")
	}
}

// TestCompile_FairDistribution_AutoMeanIsHorizonWide pins
// compileFairDistribution to api.py's behavior: auto_mean sums demand
// once over the whole horizon and applies that single target to every
// rolling window, even windows whose own day range carries no demand.
// window_days=1 here gives four disjoint single-day windows, so each
// window's deviation can be reasoned about independently: D1 and D2
// carry all the demand (eq == employee count, so coverage forces every
// employee onto M that day), D3 and D4 carry none. A per-window target
// would let D3/D4 settle at zero deviation (their own-window demand is
// zero); the horizon-wide target forces a deviation of 1 per employee
// in every window instead, since the horizon mean (2) exceeds what a
// single-day window can ever satisfy (cntUB=1).
func TestCompile_FairDistribution_AutoMeanIsHorizonWide(t *testing.T) {
	employees := []string{"P1", "P2", "P3", "P4"}
	spec := dslmodel.Spec{
		Sets: dslmodel.Sets{
			Employees: employees,
			Days:      []string{"D1", "D2", "D3", "D4"},
			Shifts:    []string{"OFF", "M"},
			Sites:     []string{"SITE_DEFAULT"},
		},
		Shifts: map[string]dslmodel.Shift{
			"M": {Start: "08:00", End: "16:00", Minutes: 480, IsWork: boolPtr(true)},
		},
		Employees: map[string]dslmodel.Employee{
			"P1": {}, "P2": {}, "P3": {}, "P4": {},
		},
		Demand: []dslmodel.Demand{
			{Day: "D1", Shift: "M", Eq: intPtr(4)},
			{Day: "D2", Shift: "M", Eq: intPtr(4)},
		},
		Constraints: []dslmodel.Constraint{
			{
				ID:   "c1",
				Type: dslmodel.TypeSoft,
				Kind: dslmodel.KindFairDistribution,
				Data: dslmodel.JSONMap{
					"shifts":      []interface{}{"M"},
					"window_days": float64(1),
					"target":      "auto_mean",
				},
				Penalty: &dslmodel.Penalty{Weight: 1},
			},
		},
	}

	model, _, err := Compile(spec)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	sol := solve(t, model)
	if sol.Status() != cpmodel.StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %v", sol.Status())
	}
	// horizon-wide target = (4+4)/4 = 2; every one of the 4 windows forces
	// a per-employee deviation of |2-1| = 1, across 4 employees = 16.
	// A per-window target would yield 0 (D1/D2 windows see their own 4/4=1
	// demand exactly met; D3/D4 windows see no demand and settle at 0).
	if sol.ObjectiveValue() != 16 {
		t.Fatalf("expected objective 16 (horizon-wide auto_mean target), got %v", sol.ObjectiveValue())
	}
}
