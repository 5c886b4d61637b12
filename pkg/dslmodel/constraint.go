package dslmodel

import (
	"encoding/json"
	"fmt"
)

// Kind 枚举约束编译器支持的封闭种类列表（spec.md §4.1/§4.4）。
type Kind string

const (
	KindExactlyOneAssignmentPerDay    Kind = "exactly_one_assignment_per_day"
	KindForbidShiftSequences          Kind = "forbid_shift_sequences"
	KindMinRestMinutesBetweenShifts   Kind = "min_rest_minutes_between_shifts"
	KindMaxShiftsInWindow             Kind = "max_shifts_in_window"
	KindMaxWorkMinutesInWindow        Kind = "max_work_minutes_in_window"
	KindMaxConsecutiveWorkDays        Kind = "max_consecutive_work_days"
	KindMinConsecutiveDaysOff         Kind = "min_consecutive_days_off"
	KindPenalizeWorkOnDays            Kind = "penalize_work_on_days"
	KindPenalizeWorkOnShifts          Kind = "penalize_work_on_shifts"
	KindPenalizeUnmetDayOffRequests   Kind = "penalize_unmet_day_off_requests"
	KindFairDistribution              Kind = "fair_distribution"
)

// HardKinds 列出可以作为硬约束使用的种类（第一组，§4.4 "Hard constraints"）。
var HardKinds = map[Kind]bool{
	KindExactlyOneAssignmentPerDay:  true,
	KindForbidShiftSequences:        true,
	KindMinRestMinutesBetweenShifts: true,
	KindMaxShiftsInWindow:           true,
	KindMaxWorkMinutesInWindow:      true,
	KindMaxConsecutiveWorkDays:      true,
	KindMinConsecutiveDaysOff:       true,
}

// SoftOnlyKinds 列出只能作为软约束使用的种类（§4.4 "Soft constraints"）。
var SoftOnlyKinds = map[Kind]bool{
	KindPenalizeWorkOnDays:          true,
	KindPenalizeWorkOnShifts:        true,
	KindPenalizeUnmetDayOffRequests: true,
	KindFairDistribution:            true,
}

// KnownKinds 是封闭的 kind 分类表；validator 用它拒绝未知 kind。
func KnownKinds() map[Kind]bool {
	out := make(map[Kind]bool, len(HardKinds)+len(SoftOnlyKinds))
	for k := range HardKinds {
		out[k] = true
	}
	for k := range SoftOnlyKinds {
		out[k] = true
	}
	return out
}

// ConstraintType 是 hard 或 soft。
type ConstraintType string

const (
	TypeHard ConstraintType = "hard"
	TypeSoft ConstraintType = "soft"
)

// Constraint 是 spec.constraints[] 中的一项：kind 决定了 Data 里应有哪些
// 字段，payload 本身保持动态类型（与上游 Python 实现一致，spec 是松散
// 类型的），由 validator 与 compiler 各自按 kind 解读。
type Constraint struct {
	ID      string         `json:"id"`
	Type    ConstraintType `json:"type"`
	Kind    Kind           `json:"kind"`
	Scope   Scope          `json:"scope,omitempty"`
	Data    JSONMap        `json:"data,omitempty"`
	Penalty *Penalty       `json:"penalty,omitempty"`
}

// Penalty 承载软约束的权重。
type Penalty struct {
	Weight float64 `json:"weight"`
}

// EffectiveWeight 返回权重，未声明 penalty 时视为 0（validator 发出警告）。
func (c Constraint) EffectiveWeight() float64 {
	if c.Penalty == nil {
		return 0
	}
	return c.Penalty.Weight
}

// Scope 是约束作用域子句：从全体员工出发，依次与下列过滤条件取交集。
type Scope struct {
	Employees     EmployeeScope `json:"employees,omitempty"`
	Groups        []string      `json:"groups,omitempty"`
	SkillsAny     []string      `json:"skills_any,omitempty"`
	SkillsAll     []string      `json:"skills_all,omitempty"`
	RolesAny      []string      `json:"roles_any,omitempty"`
	RolesAll      []string      `json:"roles_all,omitempty"`
	SitesAny      []string      `json:"sites_any,omitempty"`
	ContractsAny  []string      `json:"contracts_any,omitempty"`
}

// EmployeeScope 表达 scope.employees，它在 spec 中既可以是字符串 "ALL"
// 也可以是显式的员工 id 列表。
type EmployeeScope struct {
	All  bool
	List []string
}

// IsAll 报告该子句是否等价于全体员工起点（空、缺失或 "ALL"）。
func (e EmployeeScope) IsAll() bool {
	return e.All || (len(e.List) == 0)
}

// UnmarshalJSON 接受 "ALL"、任意字符串（拒绝）、或字符串数组。
func (e *EmployeeScope) UnmarshalJSON(b []byte) error {
	var asString string
	if err := json.Unmarshal(b, &asString); err == nil {
		if asString == "ALL" {
			*e = EmployeeScope{All: true}
			return nil
		}
		return fmt.Errorf("scope.employees: unsupported string value %q (expected \"ALL\")", asString)
	}
	var asList []string
	if err := json.Unmarshal(b, &asList); err != nil {
		return fmt.Errorf("scope.employees: expected \"ALL\" or a list of employee ids: %w", err)
	}
	*e = EmployeeScope{List: asList}
	return nil
}

// MarshalJSON 将 All 编码为 "ALL"，否则编码为列表。
func (e EmployeeScope) MarshalJSON() ([]byte, error) {
	if e.All {
		return json.Marshal("ALL")
	}
	return json.Marshal(e.List)
}
