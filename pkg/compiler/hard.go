package compiler

import (
	"fmt"

	"github.com/paiban/shiftsat/pkg/cpmodel"
	"github.com/paiban/shiftsat/pkg/dslmodel"
	"github.com/paiban/shiftsat/pkg/dsltime"
	pkgerrors "github.com/paiban/shiftsat/pkg/errors"
)

// compileHard dispatches a single hard-kind constraint to its encoder
// (spec.md §4.4 "Hard constraints").
func compileHard(model *cpmodel.Model, vt *VarTable, spec dslmodel.Spec, ct dslmodel.Constraint, employees []int) error {
	switch ct.Kind {
	case dslmodel.KindExactlyOneAssignmentPerDay:
		return compileExactlyOneAssignmentPerDay(model, vt, ct, employees)
	case dslmodel.KindForbidShiftSequences:
		return compileForbidShiftSequences(model, vt, ct, employees)
	case dslmodel.KindMinRestMinutesBetweenShifts:
		return compileMinRestMinutesBetweenShifts(model, vt, spec, ct, employees)
	case dslmodel.KindMaxShiftsInWindow:
		return compileMaxShiftsInWindow(model, vt, ct, employees)
	case dslmodel.KindMaxWorkMinutesInWindow:
		return compileMaxWorkMinutesInWindow(model, vt, spec, ct, employees)
	case dslmodel.KindMaxConsecutiveWorkDays:
		return compileMaxConsecutiveWorkDays(model, vt, ct, employees)
	case dslmodel.KindMinConsecutiveDaysOff:
		return compileMinConsecutiveDaysOff(model, vt, ct, employees)
	default:
		return pkgerrors.SpecInvalidValue("kind", fmt.Sprintf("constraint %q: kind %q is not a hard-constraint kind", ct.ID, ct.Kind))
	}
}

// resolveCountedShifts maps an optional list of shift ids in data[key] to
// work-shift indices, defaulting to all work shifts when absent.
func resolveCountedShifts(vt *VarTable, data dslmodel.JSONMap, key, constraintID string) ([]int, error) {
	list, present, err := optionalStringListField(data, key)
	if err != nil {
		return nil, err
	}
	if !present {
		out := make([]int, len(vt.WorkShifts))
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	out := make([]int, 0, len(list))
	for _, sid := range list {
		idx, ok := vt.ShiftIndex(sid)
		if !ok {
			return nil, pkgerrors.SpecInvalidValue(key, fmt.Sprintf("constraint %q: %q is not a declared work shift", constraintID, sid))
		}
		out = append(out, idx)
	}
	return out, nil
}

// resolveAssignableShifts is S' for exactly_one_assignment_per_day:
// data.shifts minus OFF when provided (OFF is silently dropped, not
// rejected, since callers naturally think of it as "every declared
// shift"), else all work shifts.
func resolveAssignableShifts(vt *VarTable, data dslmodel.JSONMap, constraintID string) ([]int, error) {
	list, present, err := optionalStringListField(data, "shifts")
	if err != nil {
		return nil, err
	}
	if !present {
		out := make([]int, len(vt.WorkShifts))
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	out := make([]int, 0, len(list))
	for _, sid := range list {
		if sid == dslmodel.OffShift {
			continue
		}
		idx, ok := vt.ShiftIndex(sid)
		if !ok {
			return nil, pkgerrors.SpecInvalidValue("shifts", fmt.Sprintf("constraint %q: %q is not a declared work shift", constraintID, sid))
		}
		out = append(out, idx)
	}
	return out, nil
}

func compileExactlyOneAssignmentPerDay(model *cpmodel.Model, vt *VarTable, ct dslmodel.Constraint, employees []int) error {
	shiftSet, err := resolveAssignableShifts(vt, ct.Data, ct.ID)
	if err != nil {
		return err
	}

	for _, e := range employees {
		for d := range vt.Days {
			e1 := single(1, vt.Off(e, d))
			for _, s := range shiftSet {
				e1 = e1.plus(vt.WorksShift(e, d, s))
			}
			e1.addTo(model.NewConstraint(cpmodel.Equal, 1))
		}
	}
	return nil
}

func compileForbidShiftSequences(model *cpmodel.Model, vt *VarTable, ct dslmodel.Constraint, employees []int) error {
	pairs, err := requiredMapListField(ct.Data, "forbidden_pairs", ct.ID)
	if err != nil {
		return err
	}

	type pairIdx struct{ prev, next int }
	resolved := make([]pairIdx, 0, len(pairs))
	for i, p := range pairs {
		prev, okPrev := stringSubField(p, "prev_shift")
		next, okNext := stringSubField(p, "next_shift")
		prevIdx, prevOk := vt.ShiftIndex(prev)
		nextIdx, nextOk := vt.ShiftIndex(next)
		if !okPrev || !prevOk {
			return pkgerrors.SpecInvalidValue("forbidden_pairs", fmt.Sprintf("constraint %q: forbidden_pairs[%d].prev_shift must be a declared work shift", ct.ID, i))
		}
		if !okNext || !nextOk {
			return pkgerrors.SpecInvalidValue("forbidden_pairs", fmt.Sprintf("constraint %q: forbidden_pairs[%d].next_shift must be a declared work shift", ct.ID, i))
		}
		resolved = append(resolved, pairIdx{prev: prevIdx, next: nextIdx})
	}

	for _, e := range employees {
		for d := 0; d < len(vt.Days)-1; d++ {
			for _, p := range resolved {
				vt.WorksShift(e, d, p.prev).plus(vt.WorksShift(e, d+1, p.next)).
					addTo(model.NewConstraint(cpmodel.LessThanOrEqual, 1))
			}
		}
	}
	return nil
}

func compileMinRestMinutesBetweenShifts(model *cpmodel.Model, vt *VarTable, spec dslmodel.Spec, ct dslmodel.Constraint, employees []int) error {
	threshold, err := requiredIntField(ct.Data, "min_rest_minutes", ct.ID)
	if err != nil {
		return err
	}

	n := len(vt.WorkShifts)
	forbidden := make([][2]int, 0)
	for s1 := 0; s1 < n; s1++ {
		def1, _ := spec.ShiftDef(vt.WorkShifts[s1])
		for s2 := 0; s2 < n; s2++ {
			def2, _ := spec.ShiftDef(vt.WorkShifts[s2])
			rest, err := dsltime.RestMinutesBetween(def1, def2)
			if err != nil {
				return pkgerrors.Wrap(err, pkgerrors.CodeInternal, fmt.Sprintf("constraint %q: rest arithmetic failed", ct.ID))
			}
			if rest < threshold {
				forbidden = append(forbidden, [2]int{s1, s2})
			}
		}
	}

	for _, e := range employees {
		for d := 0; d < len(vt.Days)-1; d++ {
			for _, pair := range forbidden {
				vt.WorksShift(e, d, pair[0]).plus(vt.WorksShift(e, d+1, pair[1])).
					addTo(model.NewConstraint(cpmodel.LessThanOrEqual, 1))
			}
		}
	}
	return nil
}

func compileMaxShiftsInWindow(model *cpmodel.Model, vt *VarTable, ct dslmodel.Constraint, employees []int) error {
	window, err := requiredIntField(ct.Data, "window_days", ct.ID)
	if err != nil {
		return err
	}
	if window <= 0 {
		return pkgerrors.SpecInvalidValue("window_days", fmt.Sprintf("constraint %q: window_days must be positive", ct.ID))
	}
	max, err := requiredIntField(ct.Data, "max", ct.ID)
	if err != nil {
		return err
	}
	mode, err := optionalStringField(ct.Data, "mode", "rolling")
	if err != nil {
		return err
	}
	if mode != "rolling" {
		return pkgerrors.SpecInvalidValue("mode", fmt.Sprintf("constraint %q: only mode=rolling is supported, got %q", ct.ID, mode))
	}
	counted, err := resolveCountedShifts(vt, ct.Data, "counted_shifts", ct.ID)
	if err != nil {
		return err
	}

	nDays := len(vt.Days)
	for _, e := range employees {
		for t := 0; t < nDays; t++ {
			end := t + window
			if end > nDays {
				end = nDays
			}
			var windowExpr expr
			for d := t; d < end; d++ {
				for _, s := range counted {
					windowExpr = windowExpr.plus(vt.WorksShift(e, d, s))
				}
			}
			windowExpr.addTo(model.NewConstraint(cpmodel.LessThanOrEqual, float64(max)))
		}
	}
	return nil
}

func compileMaxWorkMinutesInWindow(model *cpmodel.Model, vt *VarTable, spec dslmodel.Spec, ct dslmodel.Constraint, employees []int) error {
	window, err := requiredIntField(ct.Data, "window_days", ct.ID)
	if err != nil {
		return err
	}
	if window <= 0 {
		return pkgerrors.SpecInvalidValue("window_days", fmt.Sprintf("constraint %q: window_days must be positive", ct.ID))
	}
	maxMinutes, err := requiredIntField(ct.Data, "max_minutes", ct.ID)
	if err != nil {
		return err
	}
	counted, err := resolveCountedShifts(vt, ct.Data, "counted_shifts", ct.ID)
	if err != nil {
		return err
	}

	minutes := make([]int, len(counted))
	for i, s := range counted {
		def, _ := spec.ShiftDef(vt.WorkShifts[s])
		minutes[i] = def.Minutes
	}

	nDays := len(vt.Days)
	for _, e := range employees {
		for t := 0; t < nDays; t++ {
			end := t + window
			if end > nDays {
				end = nDays
			}
			var windowExpr expr
			for d := t; d < end; d++ {
				for i, s := range counted {
					for _, tm := range vt.WorksShift(e, d, s) {
						windowExpr = append(windowExpr, term{coef: float64(minutes[i]), v: tm.v})
					}
				}
			}
			windowExpr.addTo(model.NewConstraint(cpmodel.LessThanOrEqual, float64(maxMinutes)))
		}
	}
	return nil
}

func compileMaxConsecutiveWorkDays(model *cpmodel.Model, vt *VarTable, ct dslmodel.Constraint, employees []int) error {
	max, err := requiredIntField(ct.Data, "max", ct.ID)
	if err != nil {
		return err
	}

	l := max + 1
	nDays := len(vt.Days)
	if l > nDays {
		return nil
	}

	for _, e := range employees {
		for start := 0; start+l <= nDays; start++ {
			var blockExpr expr
			for d := start; d < start+l; d++ {
				blockExpr = blockExpr.plus(vt.WorksDay(e, d))
			}
			blockExpr.addTo(model.NewConstraint(cpmodel.LessThanOrEqual, float64(max)))
		}
	}
	return nil
}

func compileMinConsecutiveDaysOff(model *cpmodel.Model, vt *VarTable, ct dslmodel.Constraint, employees []int) error {
	k, err := requiredIntField(ct.Data, "min", ct.ID)
	if err != nil {
		return err
	}
	if k <= 0 {
		return pkgerrors.SpecInvalidValue("min", fmt.Sprintf("constraint %q: min must be positive", ct.ID))
	}

	nDays := len(vt.Days)
	for _, e := range employees {
		startOff := make([]cpmodel.Var, nDays)
		for d := 0; d < nDays; d++ {
			startOff[d] = model.NewBoolVar()
		}

		for d := 0; d < nDays; d++ {
			if d == 0 {
				single(1, startOff[0]).plus(single(-1, vt.Off(e, 0))).
					addTo(model.NewConstraint(cpmodel.Equal, 0))
				continue
			}
			// start_off <= off[e,d]
			single(1, startOff[d]).plus(single(-1, vt.Off(e, d))).
				addTo(model.NewConstraint(cpmodel.LessThanOrEqual, 0))
			// start_off <= 1 - off[e,d-1]  =>  start_off + off[e,d-1] <= 1
			single(1, startOff[d]).plus(single(1, vt.Off(e, d-1))).
				addTo(model.NewConstraint(cpmodel.LessThanOrEqual, 1))
			// start_off >= off[e,d] - off[e,d-1]
			single(1, startOff[d]).plus(single(-1, vt.Off(e, d))).plus(single(1, vt.Off(e, d-1))).
				addTo(model.NewConstraint(cpmodel.GreaterThanOrEqual, 0))
		}

		for d := 0; d < nDays; d++ {
			end := d + k
			if end > nDays {
				end = nDays
			}
			for j := d; j < end; j++ {
				model.NewIndicatorConstraint(startOff[d], cpmodel.Equal, 1).NewTerm(1, vt.Off(e, j))
			}
		}
	}
	return nil
}
