package compiler

import (
	"github.com/paiban/shiftsat/pkg/cpmodel"
	"github.com/paiban/shiftsat/pkg/dslmodel"
)

// VarTable holds the dense decision-variable schema from spec.md §3: a
// flat x[e,d,s,site] table plus off[e,d], indexed by pre-computed strides
// rather than a hash keyed by tuples (spec.md §9 "Variable table →
// dense index arithmetic").
type VarTable struct {
	Spec       dslmodel.Spec
	Employees  []string
	Days       []string
	WorkShifts []string
	Sites      []string

	empIdx   map[string]int
	dayIdx   map[string]int
	shiftIdx map[string]int
	siteIdx  map[string]int

	x   []cpmodel.Var
	off []cpmodel.Var
}

func newVarTable(model *cpmodel.Model, spec dslmodel.Spec) *VarTable {
	vt := &VarTable{
		Spec:       spec,
		Employees:  spec.Sets.Employees,
		Days:       spec.Sets.Days,
		WorkShifts: spec.WorkShifts(),
		Sites:      spec.Sets.EffectiveSites(),
	}

	vt.empIdx = indexOf(vt.Employees)
	vt.dayIdx = indexOf(vt.Days)
	vt.shiftIdx = indexOf(vt.WorkShifts)
	vt.siteIdx = indexOf(vt.Sites)

	nE, nD, nS, nSite := len(vt.Employees), len(vt.Days), len(vt.WorkShifts), len(vt.Sites)

	vt.x = make([]cpmodel.Var, nE*nD*nS*nSite)
	for i := range vt.x {
		vt.x[i] = model.NewBoolVar()
	}

	vt.off = make([]cpmodel.Var, nE*nD)
	for i := range vt.off {
		vt.off[i] = model.NewBoolVar()
	}

	return vt
}

func indexOf(list []string) map[string]int {
	out := make(map[string]int, len(list))
	for i, v := range list {
		out[v] = i
	}
	return out
}

// EmployeeIndex, DayIndex, ShiftIndex and SiteIndex resolve a spec-level
// identifier to its dense-table index; ShiftIndex only recognizes work
// shifts, matching the x table's schema (OFF has no shift-table slot).
func (vt *VarTable) EmployeeIndex(eid string) (int, bool) { i, ok := vt.empIdx[eid]; return i, ok }
func (vt *VarTable) DayIndex(day string) (int, bool)      { i, ok := vt.dayIdx[day]; return i, ok }
func (vt *VarTable) ShiftIndex(sid string) (int, bool)    { i, ok := vt.shiftIdx[sid]; return i, ok }
func (vt *VarTable) SiteIndex(site string) (int, bool)    { i, ok := vt.siteIdx[site]; return i, ok }

func (vt *VarTable) xIndex(e, d, s, site int) int {
	nD, nS, nSite := len(vt.Days), len(vt.WorkShifts), len(vt.Sites)
	return ((e*nD+d)*nS+s)*nSite + site
}

// X returns the decision variable for employee e working shift s at site
// site on day d.
func (vt *VarTable) X(e, d, s, site int) cpmodel.Var {
	return vt.x[vt.xIndex(e, d, s, site)]
}

// Off returns the decision variable for employee e being off on day d.
func (vt *VarTable) Off(e, d int) cpmodel.Var {
	return vt.off[e*len(vt.Days)+d]
}

// WorksShift is the linear expression works_shift(e,d,s) = Σ_site x[e,d,s,site].
func (vt *VarTable) WorksShift(e, d, s int) expr {
	out := make(expr, 0, len(vt.Sites))
	for site := range vt.Sites {
		out = append(out, term{coef: 1, v: vt.X(e, d, s, site)})
	}
	return out
}

// WorksDay is the linear expression works_day(e,d) = Σ_{s ∈ work_shifts} works_shift(e,d,s).
func (vt *VarTable) WorksDay(e, d int) expr {
	var out expr
	for s := range vt.WorkShifts {
		out = out.plus(vt.WorksShift(e, d, s))
	}
	return out
}
