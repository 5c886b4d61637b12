// Package scope 实现约束的作用域选择算子：从全体员工出发，依次与
// scope 子句声明的各个过滤条件取交集，返回按字典序排序的员工 id 列表
// （spec.md §4.2）。validator 与 compiler 共用同一份实现。
package scope

import (
	"sort"

	"github.com/paiban/shiftsat/pkg/dslmodel"
)

// Select 解析一个约束的 scope 子句，返回按字典序排序的员工 id 列表。
//
// 起点：scope 为空、缺少 employees、或 employees="ALL" 时从全体员工出发；
// 否则从显式列表出发。随后依次与下列条件取交集（均为 AND 语义）：
// groups 成员资格、skills_any/skills_all、roles_any/roles_all、
// sites_any、contracts_any。任一过滤条件缺失或为空都是空操作；未知的
// group 名静默产生空交集。
func Select(spec dslmodel.Spec, sc dslmodel.Scope) []string {
	base := startSet(spec, sc)

	for _, group := range sc.Groups {
		base = intersect(base, toSet(spec.Groups[group]))
	}
	if len(sc.SkillsAny) > 0 {
		base = filter(base, spec, func(e dslmodel.Employee) bool {
			return anyMatch(e.Skills, sc.SkillsAny)
		})
	}
	if len(sc.SkillsAll) > 0 {
		base = filter(base, spec, func(e dslmodel.Employee) bool {
			return allMatch(e.Skills, sc.SkillsAll)
		})
	}
	if len(sc.RolesAny) > 0 {
		base = filter(base, spec, func(e dslmodel.Employee) bool {
			return anyMatch(e.Roles, sc.RolesAny)
		})
	}
	if len(sc.RolesAll) > 0 {
		base = filter(base, spec, func(e dslmodel.Employee) bool {
			return allMatch(e.Roles, sc.RolesAll)
		})
	}
	if len(sc.SitesAny) > 0 {
		base = filter(base, spec, func(e dslmodel.Employee) bool {
			return containsString(sc.SitesAny, e.SiteHome)
		})
	}
	if len(sc.ContractsAny) > 0 {
		base = filter(base, spec, func(e dslmodel.Employee) bool {
			return containsString(sc.ContractsAny, e.Contract.Type)
		})
	}

	out := make([]string, 0, len(base))
	for eid := range base {
		out = append(out, eid)
	}
	sort.Strings(out)
	return out
}

func startSet(spec dslmodel.Spec, sc dslmodel.Scope) map[string]bool {
	if sc.Employees.IsAll() {
		return toSet(spec.Sets.Employees)
	}
	return toSet(sc.Employees.List)
}

func filter(base map[string]bool, spec dslmodel.Spec, keep func(dslmodel.Employee) bool) map[string]bool {
	out := make(map[string]bool, len(base))
	for eid := range base {
		if keep(spec.Employees[eid]) {
			out[eid] = true
		}
	}
	return out
}

func intersect(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for eid := range a {
		if b[eid] {
			out[eid] = true
		}
	}
	return out
}

func toSet(list []string) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, v := range list {
		out[v] = true
	}
	return out
}

func anyMatch(have, want []string) bool {
	for _, w := range want {
		if containsString(have, w) {
			return true
		}
	}
	return false
}

func allMatch(have, want []string) bool {
	for _, w := range want {
		if !containsString(have, w) {
			return false
		}
	}
	return true
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
