package driver

import (
	"github.com/paiban/shiftsat/pkg/compiler"
	"github.com/paiban/shiftsat/pkg/cpmodel"
	"github.com/paiban/shiftsat/pkg/dslmodel"
)

// materialize builds the result record from a solved model: schedule
// grouped by day/site/shift plus OFF, and per-employee metrics. Employees
// appear in schedule lists in sets.employees order (spec.md §4.5).
func materialize(spec dslmodel.Spec, vt *compiler.VarTable, sol *cpmodel.Solution) dslmodel.Result {
	schedule := dslmodel.NewDaySchedule(vt.Days)
	metrics := &dslmodel.Metrics{
		MinutesWorked: make(map[string]int, len(vt.Employees)),
		ShiftCounts:   make(map[string]map[string]int, len(vt.Employees)),
	}
	for _, eid := range vt.Employees {
		metrics.MinutesWorked[eid] = 0
		metrics.ShiftCounts[eid] = make(map[string]int, len(vt.WorkShifts))
	}

	for d, day := range vt.Days {
		var off []string
		for e, eid := range vt.Employees {
			if sol.BoolValue(vt.Off(e, d)) {
				off = append(off, eid)
			}
		}
		schedule.SetOff(day, off)

		for s, sid := range vt.WorkShifts {
			def, _ := spec.ShiftDef(sid)
			for site, siteName := range vt.Sites {
				siteShifts := schedule.SiteShifts(day, siteName)
				for e, eid := range vt.Employees {
					if !sol.BoolValue(vt.X(e, d, s, site)) {
						continue
					}
					siteShifts[sid] = append(siteShifts[sid], eid)
					metrics.MinutesWorked[eid] += def.Minutes
					metrics.ShiftCounts[eid][sid]++
				}
			}
		}
	}

	return dslmodel.Result{
		Status:    dslmodel.StatusOK,
		Objective: sol.ObjectiveValue(),
		Schedule:  schedule,
		Metrics:   metrics,
	}
}
