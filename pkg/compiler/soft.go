package compiler

import (
	"fmt"

	"github.com/paiban/shiftsat/pkg/cpmodel"
	"github.com/paiban/shiftsat/pkg/dslmodel"
	pkgerrors "github.com/paiban/shiftsat/pkg/errors"
)

// compileSoft dispatches a single soft-kind constraint, accumulating its
// weighted penalty terms directly into the model's objective (spec.md
// §4.4 "Soft constraints").
func compileSoft(model *cpmodel.Model, vt *VarTable, spec dslmodel.Spec, ct dslmodel.Constraint, employees []int) error {
	weight := ct.EffectiveWeight()

	switch ct.Kind {
	case dslmodel.KindPenalizeWorkOnDays:
		return compilePenalizeWorkOnDays(model, vt, ct, employees, weight)
	case dslmodel.KindPenalizeWorkOnShifts:
		return compilePenalizeWorkOnShifts(model, vt, ct, employees, weight)
	case dslmodel.KindPenalizeUnmetDayOffRequests:
		return compilePenalizeUnmetDayOffRequests(model, vt, ct, employees, weight)
	case dslmodel.KindFairDistribution:
		return compileFairDistribution(model, vt, spec, ct, employees, weight)
	default:
		return pkgerrors.SpecInvalidValue("kind", fmt.Sprintf("constraint %q: kind %q is not a soft-constraint kind", ct.ID, ct.Kind))
	}
}

func compilePenalizeWorkOnDays(model *cpmodel.Model, vt *VarTable, ct dslmodel.Constraint, employees []int, weight float64) error {
	days, err := requiredStringListField(ct.Data, "days", ct.ID)
	if err != nil {
		return err
	}
	shiftSet, err := resolveCountedShifts(vt, ct.Data, "working_shifts", ct.ID)
	if err != nil {
		return err
	}

	obj := model.Objective()
	for _, e := range employees {
		for _, day := range days {
			d, ok := vt.DayIndex(day)
			if !ok {
				return pkgerrors.SpecMissingField("days", fmt.Sprintf("constraint %q: unknown day %q", ct.ID, day))
			}
			var sum expr
			for _, s := range shiftSet {
				sum = sum.plus(vt.WorksShift(e, d, s))
			}
			works := auxEqualsExpr(model, sum, 0, len(shiftSet)*len(vt.Sites))
			obj.NewTerm(weight, works)
		}
	}
	return nil
}

func compilePenalizeWorkOnShifts(model *cpmodel.Model, vt *VarTable, ct dslmodel.Constraint, employees []int, weight float64) error {
	shifts, err := requiredStringListField(ct.Data, "shifts", ct.ID)
	if err != nil {
		return err
	}
	shiftIdx := make([]int, 0, len(shifts))
	for _, sid := range shifts {
		idx, ok := vt.ShiftIndex(sid)
		if !ok {
			return pkgerrors.SpecInvalidValue("shifts", fmt.Sprintf("constraint %q: %q is not a declared work shift", ct.ID, sid))
		}
		shiftIdx = append(shiftIdx, idx)
	}

	obj := model.Objective()
	for _, e := range employees {
		for d := range vt.Days {
			var sum expr
			for _, s := range shiftIdx {
				sum = sum.plus(vt.WorksShift(e, d, s))
			}
			works := auxEqualsExpr(model, sum, 0, len(shiftIdx)*len(vt.Sites))
			obj.NewTerm(weight, works)
		}
	}
	return nil
}

func compilePenalizeUnmetDayOffRequests(model *cpmodel.Model, vt *VarTable, ct dslmodel.Constraint, employees []int, weight float64) error {
	days, err := requiredStringListField(ct.Data, "days", ct.ID)
	if err != nil {
		return err
	}

	obj := model.Objective()
	for _, e := range employees {
		for _, day := range days {
			d, ok := vt.DayIndex(day)
			if !ok {
				return pkgerrors.SpecMissingField("days", fmt.Sprintf("constraint %q: unknown day %q", ct.ID, day))
			}
			// unmet == 1 - off[e,d]  <=>  unmet + off[e,d] == 1
			unmet := model.NewBoolVar()
			single(1, unmet).plus(single(1, vt.Off(e, d))).
				addTo(model.NewConstraint(cpmodel.Equal, 1))
			obj.NewTerm(weight, unmet)
		}
	}
	return nil
}

func compileFairDistribution(model *cpmodel.Model, vt *VarTable, spec dslmodel.Spec, ct dslmodel.Constraint, employees []int, weight float64) error {
	measure, err := optionalStringField(ct.Data, "measure", "count")
	if err != nil {
		return err
	}
	if measure != "count" {
		return pkgerrors.SpecInvalidValue("measure", fmt.Sprintf("constraint %q: only measure=count is supported, got %q", ct.ID, measure))
	}
	penalize, err := optionalStringField(ct.Data, "penalize", "absolute_deviation")
	if err != nil {
		return err
	}
	if penalize != "absolute_deviation" {
		return pkgerrors.SpecInvalidValue("penalize", fmt.Sprintf("constraint %q: only penalize=absolute_deviation is supported, got %q", ct.ID, penalize))
	}

	shifts, err := requiredStringListField(ct.Data, "shifts", ct.ID)
	if err != nil {
		return err
	}
	shiftIdx := make([]int, 0, len(shifts))
	for _, sid := range shifts {
		idx, ok := vt.ShiftIndex(sid)
		if !ok {
			return pkgerrors.SpecInvalidValue("shifts", fmt.Sprintf("constraint %q: %q is not a declared work shift", ct.ID, sid))
		}
		shiftIdx = append(shiftIdx, idx)
	}

	nDays := len(vt.Days)
	windowDays, err := optionalIntField(ct.Data, "window_days", nDays)
	if err != nil {
		return err
	}
	if windowDays <= 0 {
		windowDays = nDays
	}

	target, err := requiredStringField(ct.Data, "target", ct.ID)
	if err != nil {
		return err
	}

	var starts []int
	if windowDays >= nDays {
		starts = []int{0}
		windowDays = nDays
	} else {
		for t := 0; t < nDays; t++ {
			starts = append(starts, t)
		}
	}

	windowTarget, err := fairDistributionTarget(spec, vt, shifts, target, len(employees), 0, nDays)
	if err != nil {
		return err
	}

	obj := model.Objective()
	for _, start := range starts {
		end := start + windowDays
		if end > nDays {
			end = nDays
		}

		cntUB := (end - start) * len(shiftIdx) * len(vt.Sites)
		devUB := cntUB + windowTarget
		if devUB < 0 {
			devUB = cntUB
		}

		for _, e := range employees {
			var sum expr
			for d := start; d < end; d++ {
				for _, s := range shiftIdx {
					sum = sum.plus(vt.WorksShift(e, d, s))
				}
			}
			cnt := auxEqualsExpr(model, sum, 0, cntUB)
			dev := model.NewIntVar(0, devUB)

			// dev >= cnt - target  =>  dev - cnt >= -target
			single(1, dev).plus(single(-1, cnt)).
				addTo(model.NewConstraint(cpmodel.GreaterThanOrEqual, -float64(windowTarget)))
			// dev >= target - cnt  =>  dev + cnt >= target
			single(1, dev).plus(single(1, cnt)).
				addTo(model.NewConstraint(cpmodel.GreaterThanOrEqual, float64(windowTarget)))

			obj.NewTerm(weight, dev)
		}
	}
	return nil
}

// fairDistributionTarget computes a single target count shared by every
// window. "auto_mean" sums the counted shifts' demand quantities within
// [start,end) — eq, or min when min==max, else zero — and divides by
// max(1,|E|), rounded to the nearest integer; any other value is parsed
// as a literal integer. Callers pass the full [0,nDays) horizon so the
// same target applies to every rolling window, matching the reference
// behavior of computing one horizon-wide mean rather than re-deriving it
// per window.
func fairDistributionTarget(spec dslmodel.Spec, vt *VarTable, countedShifts []string, target string, numEmployees, start, end int) (int, error) {
	if target != "auto_mean" {
		return parseIntStrict(target)
	}

	countedSet := make(map[string]bool, len(countedShifts))
	for _, s := range countedShifts {
		countedSet[s] = true
	}

	total := 0
	for _, d := range spec.Demand {
		if !countedSet[d.Shift] {
			continue
		}
		idx, ok := vt.DayIndex(d.Day)
		if !ok || idx < start || idx >= end {
			continue
		}
		switch {
		case d.Eq != nil:
			total += *d.Eq
		case d.Min != nil && d.Max != nil && *d.Min == *d.Max:
			total += *d.Min
		}
	}

	denom := numEmployees
	if denom < 1 {
		denom = 1
	}
	return roundNearest(total, denom), nil
}

func roundNearest(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	q := numerator / denominator
	r := numerator % denominator
	if r*2 >= denominator {
		q++
	} else if r*2 <= -denominator {
		q--
	}
	return q
}
