// Package validator 静态检查一份排班 DSL spec 的良构性与语义一致性
// （spec.md §4.1）。Validate 是纯函数，不与求解后端交互。
package validator

import (
	"fmt"

	"github.com/paiban/shiftsat/pkg/dslmodel"
	"github.com/paiban/shiftsat/pkg/dsltime"
	"github.com/paiban/shiftsat/pkg/errors"
	"github.com/paiban/shiftsat/pkg/scope"
)

// Result 是 validate(spec) 的输出：ok 当且仅当 errors 为空；warnings 从不
// 阻塞编译。
type Result struct {
	OK       bool     `json:"ok"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// collector 在校验过程中顺序累积 errors/warnings。
type collector struct {
	verrs    errors.ValidationErrors
	warnings []string
}

func (c *collector) errorf(field, format string, args ...interface{}) {
	c.verrs.Add(field, fmt.Sprintf(format, args...))
}

func (c *collector) warnf(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *collector) result() Result {
	out := Result{OK: !c.verrs.HasErrors(), Warnings: c.warnings}
	for _, e := range c.verrs.Errors {
		out.Errors = append(out.Errors, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	if out.Errors == nil {
		out.Errors = []string{}
	}
	return out
}

// Validate 对 spec 的良构性与语义一致性执行静态检查，返回
// {ok, errors[], warnings[]}。两次对相同 spec 调用产生字节相同的输出。
func Validate(spec dslmodel.Spec) Result {
	c := &collector{}

	checkTopLevel(c, spec)
	checkSets(c, spec)
	checkShiftDefs(c, spec)
	checkEmployees(c, spec)
	checkDemand(c, spec)
	checkConstraints(c, spec)

	return c.result()
}

func checkTopLevel(c *collector, spec dslmodel.Spec) {
	if len(spec.Sets.Employees) == 0 && len(spec.Sets.Days) == 0 && len(spec.Sets.Shifts) == 0 {
		c.errorf("sets", "missing sets")
	}
	if len(spec.Demand) == 0 {
		c.warnf("demand: missing (no coverage requirements declared)")
	}
	if len(spec.Constraints) == 0 {
		c.warnf("constraints: missing (no structural constraints declared)")
	}
	if len(spec.Objective) == 0 {
		c.warnf("objective: missing (solve will minimize 0 if no soft constraints exist)")
	}
}

func checkSets(c *collector, spec dslmodel.Spec) {
	checkUniqueNonEmpty(c, "sets.employees", spec.Sets.Employees)
	checkUniqueNonEmpty(c, "sets.days", spec.Sets.Days)
	checkUniqueNonEmpty(c, "sets.shifts", spec.Sets.Shifts)
	if len(spec.Sets.Sites) > 0 {
		checkUnique(c, "sets.sites", spec.Sets.Sites)
	}

	if !containsString(spec.Sets.Shifts, dslmodel.OffShift) {
		c.errorf("sets.shifts", "sentinel shift %q must be present", dslmodel.OffShift)
	}
}

func checkUniqueNonEmpty(c *collector, field string, list []string) {
	if len(list) == 0 {
		c.errorf(field, "must be a non-empty list")
		return
	}
	checkUnique(c, field, list)
}

func checkUnique(c *collector, field string, list []string) {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		if seen[v] {
			c.errorf(field, "duplicate entry %q", v)
		}
		seen[v] = true
	}
}

func checkShiftDefs(c *collector, spec dslmodel.Spec) {
	declared := make(map[string]bool, len(spec.Sets.Shifts))
	for _, sid := range spec.Sets.Shifts {
		declared[sid] = true
	}
	if declared[dslmodel.OffShift] {
		if _, ok := spec.Shifts[dslmodel.OffShift]; !ok {
			c.warnf("shifts.%s: definition missing, assuming zero-duration non-work shift", dslmodel.OffShift)
		}
	}

	visited := make(map[string]bool, len(spec.Sets.Shifts))
	for _, sid := range spec.Sets.Shifts {
		if sid == dslmodel.OffShift || visited[sid] {
			continue
		}
		visited[sid] = true
		def, ok := spec.Shifts[sid]
		if !ok {
			c.warnf("shifts.%s: definition missing", sid)
			continue
		}
		if _, err := dsltime.ParseHHMM(def.Start); err != nil {
			c.errorf(fmt.Sprintf("shifts.%s.start", sid), "%v", err)
		}
		if _, err := dsltime.ParseHHMM(def.End); err != nil {
			c.errorf(fmt.Sprintf("shifts.%s.end", sid), "%v", err)
		}
		if def.Minutes < 0 {
			c.errorf(fmt.Sprintf("shifts.%s.minutes", sid), "must be a non-negative integer")
		}
	}
}

func checkEmployees(c *collector, spec dslmodel.Spec) {
	for _, eid := range spec.Sets.Employees {
		if _, ok := spec.Employees[eid]; !ok {
			c.warnf("employees.%s: metadata missing", eid)
		}
	}
}

func checkDemand(c *collector, spec dslmodel.Spec) {
	days := toSet(spec.Sets.Days)
	shifts := toSet(spec.Sets.Shifts)
	sites := toSet(spec.Sets.EffectiveSites())

	declaredSkills, declaredRoles := declaredTags(spec)

	for i, d := range spec.Demand {
		prefix := fmt.Sprintf("demand[%d]", i)

		if d.Day == "" || !days[d.Day] {
			c.errorf(prefix+".day", "unknown day %q", d.Day)
		}
		if d.Shift == "" || !shifts[d.Shift] {
			c.errorf(prefix+".shift", "unknown shift %q", d.Shift)
		} else if def, ok := spec.ShiftDef(d.Shift); !ok || !def.EffectiveIsWork() {
			c.errorf(prefix+".shift", "shift %q is not a work shift", d.Shift)
		}
		site := d.Site
		if site == "" {
			site = spec.Sets.EffectiveSites()[0]
		}
		if !sites[site] {
			c.errorf(prefix+".site", "unknown site %q", site)
		}

		if d.Eq != nil && (d.Min != nil || d.Max != nil) {
			c.errorf(prefix, "cardinality must be eq xor min/max, not both")
		}
		checkNonNegative(c, prefix+".eq", d.Eq)
		checkNonNegative(c, prefix+".min", d.Min)
		checkNonNegative(c, prefix+".max", d.Max)
		if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
			c.errorf(prefix, "min (%d) exceeds max (%d)", *d.Min, *d.Max)
		}

		for j, sm := range d.Requirements.SkillsMin {
			p := fmt.Sprintf("%s.requirements.skills_min[%d]", prefix, j)
			if sm.Skill == "" {
				c.errorf(p+".skill", "missing skill key")
			} else if !declaredSkills[sm.Skill] {
				c.warnf("%s: skill %q required by demand but not declared by any employee", p, sm.Skill)
			}
			if sm.Min < 0 {
				c.errorf(p+".min", "must be non-negative")
			}
		}
		for j, rm := range d.Requirements.RolesMin {
			p := fmt.Sprintf("%s.requirements.roles_min[%d]", prefix, j)
			if rm.Role == "" {
				c.errorf(p+".role", "missing role key")
			} else if !declaredRoles[rm.Role] {
				c.warnf("%s: role %q required by demand but not declared by any employee", p, rm.Role)
			}
			if rm.Min < 0 {
				c.errorf(p+".min", "must be non-negative")
			}
		}
	}
}

func checkNonNegative(c *collector, field string, v *int) {
	if v != nil && *v < 0 {
		c.errorf(field, "must be a non-negative integer")
	}
}

func declaredTags(spec dslmodel.Spec) (skills, roles map[string]bool) {
	skills = make(map[string]bool)
	roles = make(map[string]bool)
	for _, e := range spec.Employees {
		for _, s := range e.Skills {
			skills[s] = true
		}
		for _, r := range e.Roles {
			roles[r] = true
		}
	}
	return skills, roles
}

func checkConstraints(c *collector, spec dslmodel.Spec) {
	known := dslmodel.KnownKinds()
	seenIDs := make(map[string]bool, len(spec.Constraints))

	for i, ct := range spec.Constraints {
		prefix := fmt.Sprintf("constraints[%d]", i)

		if ct.ID == "" {
			c.errorf(prefix+".id", "must be a non-empty string")
		} else if seenIDs[ct.ID] {
			c.errorf(prefix+".id", "duplicate constraint id %q", ct.ID)
		}
		seenIDs[ct.ID] = true

		if ct.Type != dslmodel.TypeHard && ct.Type != dslmodel.TypeSoft {
			c.errorf(prefix+".type", "must be %q or %q", dslmodel.TypeHard, dslmodel.TypeSoft)
		}
		if !known[ct.Kind] {
			c.errorf(prefix+".kind", "unknown kind %q", ct.Kind)
			continue
		}
		if dslmodel.SoftOnlyKinds[ct.Kind] && ct.Type != dslmodel.TypeSoft {
			c.errorf(prefix+".type", "kind %q requires type=soft", ct.Kind)
		}
		if ct.Type == dslmodel.TypeSoft {
			if ct.Penalty == nil {
				c.warnf("%s.penalty: missing weight, treated as 0", prefix)
			} else if ct.Penalty.Weight < 0 {
				c.errorf(prefix+".penalty.weight", "must be non-negative")
			}
		}

		checkScopeReferences(c, spec, prefix, ct.Scope)
		checkKindPayload(c, spec, prefix, ct)

		if sel := scope.Select(spec, ct.Scope); len(sel) == 0 {
			c.warnf("%s.scope: selects zero employees", prefix)
		}
	}
}

func checkScopeReferences(c *collector, spec dslmodel.Spec, prefix string, sc dslmodel.Scope) {
	if sc.Employees.All {
		return
	}
	known := toSet(spec.Sets.Employees)
	for _, eid := range sc.Employees.List {
		if !known[eid] {
			c.errorf(prefix+".scope.employees", "unknown employee id %q", eid)
		}
	}
}

func checkKindPayload(c *collector, spec dslmodel.Spec, prefix string, ct dslmodel.Constraint) {
	data := ct.Data
	field := func(suffix string) string { return fmt.Sprintf("%s.data.%s", prefix, suffix) }

	workShifts := toSet(spec.WorkShifts())
	days := toSet(spec.Sets.Days)
	shifts := toSet(spec.Sets.Shifts)

	switch ct.Kind {
	case dslmodel.KindForbidShiftSequences:
		pairs, ok := mapListField(data, "forbidden_pairs")
		if !ok || len(pairs) == 0 {
			c.errorf(field("forbidden_pairs"), "must be a non-empty list")
			break
		}
		for i, pair := range pairs {
			prev, okPrev := stringSubField(pair, "prev_shift")
			next, okNext := stringSubField(pair, "next_shift")
			p := field(fmt.Sprintf("forbidden_pairs[%d]", i))
			if !okPrev || !workShifts[prev] {
				c.errorf(p+".prev_shift", "must be a declared work shift")
			}
			if !okNext || !workShifts[next] {
				c.errorf(p+".next_shift", "must be a declared work shift")
			}
		}

	case dslmodel.KindMaxShiftsInWindow:
		requirePositiveInt(c, data, field("window_days"), "window_days")
		requireNonNegativeInt(c, data, field("max"), "max")

	case dslmodel.KindMaxWorkMinutesInWindow:
		requirePositiveInt(c, data, field("window_days"), "window_days")
		requireNonNegativeInt(c, data, field("max_minutes"), "max_minutes")

	case dslmodel.KindMinRestMinutesBetweenShifts:
		requireNonNegativeInt(c, data, field("min_rest_minutes"), "min_rest_minutes")

	case dslmodel.KindMaxConsecutiveWorkDays:
		requireNonNegativeInt(c, data, field("max"), "max")

	case dslmodel.KindMinConsecutiveDaysOff:
		requirePositiveInt(c, data, field("min"), "min")

	case dslmodel.KindPenalizeWorkOnDays, dslmodel.KindPenalizeUnmetDayOffRequests:
		list, ok := stringListField(data, "days")
		if !ok || len(list) == 0 {
			c.errorf(field("days"), "must be a non-empty list of declared days")
			break
		}
		for _, d := range list {
			if !days[d] {
				c.errorf(field("days"), "unknown day %q", d)
			}
		}

	case dslmodel.KindPenalizeWorkOnShifts:
		list, ok := stringListField(data, "shifts")
		if !ok || len(list) == 0 {
			c.errorf(field("shifts"), "must be a non-empty list of declared shifts")
			break
		}
		for _, s := range list {
			if !shifts[s] {
				c.errorf(field("shifts"), "unknown shift %q", s)
			}
		}

	case dslmodel.KindFairDistribution:
		if _, present := data["window_days"]; present {
			requirePositiveInt(c, data, field("window_days"), "window_days")
		}
	}
}

func requirePositiveInt(c *collector, data dslmodel.JSONMap, field, key string) {
	v, present, ok := intField(data, key)
	if !present || !ok || v <= 0 {
		c.errorf(field, "must be a positive integer")
	}
}

func requireNonNegativeInt(c *collector, data dslmodel.JSONMap, field, key string) {
	v, present, ok := intField(data, key)
	if !present || !ok || v < 0 {
		c.errorf(field, "must be a non-negative integer")
	}
}

func toSet(list []string) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, v := range list {
		out[v] = true
	}
	return out
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
