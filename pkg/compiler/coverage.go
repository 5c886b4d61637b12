package compiler

import (
	"fmt"

	"github.com/paiban/shiftsat/pkg/cpmodel"
	"github.com/paiban/shiftsat/pkg/dslmodel"
	pkgerrors "github.com/paiban/shiftsat/pkg/errors"
)

// compileCoverage emits demand[] as coverage constraints before any
// user-declared constraint, so the variable-to-demand wiring is fixed
// before a scoped constraint references the same cells (spec.md §5).
func compileCoverage(model *cpmodel.Model, vt *VarTable, spec dslmodel.Spec) error {
	for i, d := range spec.Demand {
		dayIdx, ok := vt.DayIndex(d.Day)
		if !ok {
			return pkgerrors.SpecMissingField("demand.day", fmt.Sprintf("demand[%d]: unknown day %q", i, d.Day))
		}
		shiftIdx, ok := vt.ShiftIndex(d.Shift)
		if !ok {
			return pkgerrors.SpecInvalidValue("demand.shift", fmt.Sprintf("demand[%d]: %q is not a declared work shift", i, d.Shift))
		}
		site := d.EffectiveSite(spec)
		siteIdx, ok := vt.SiteIndex(site)
		if !ok {
			return pkgerrors.SpecMissingField("demand.site", fmt.Sprintf("demand[%d]: unknown site %q", i, site))
		}

		cellExpr := make(expr, 0, len(vt.Employees))
		for e := range vt.Employees {
			cellExpr = append(cellExpr, term{coef: 1, v: vt.X(e, dayIdx, shiftIdx, siteIdx)})
		}

		if d.Eq != nil {
			cellExpr.addTo(model.NewConstraint(cpmodel.Equal, float64(*d.Eq)))
		} else {
			if d.Min != nil {
				cellExpr.addTo(model.NewConstraint(cpmodel.GreaterThanOrEqual, float64(*d.Min)))
			}
			if d.Max != nil {
				cellExpr.addTo(model.NewConstraint(cpmodel.LessThanOrEqual, float64(*d.Max)))
			}
		}

		for _, sm := range d.Requirements.SkillsMin {
			cellSkillExpr := make(expr, 0)
			for e, eid := range vt.Employees {
				if spec.Employees[eid].HasSkill(sm.Skill) {
					cellSkillExpr = append(cellSkillExpr, term{coef: 1, v: vt.X(e, dayIdx, shiftIdx, siteIdx)})
				}
			}
			cellSkillExpr.addTo(model.NewConstraint(cpmodel.GreaterThanOrEqual, float64(sm.Min)))
		}
		for _, rm := range d.Requirements.RolesMin {
			cellRoleExpr := make(expr, 0)
			for e, eid := range vt.Employees {
				if spec.Employees[eid].HasRole(rm.Role) {
					cellRoleExpr = append(cellRoleExpr, term{coef: 1, v: vt.X(e, dayIdx, shiftIdx, siteIdx)})
				}
			}
			cellRoleExpr.addTo(model.NewConstraint(cpmodel.GreaterThanOrEqual, float64(rm.Min)))
		}
	}
	return nil
}
