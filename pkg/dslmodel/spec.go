// Package dslmodel 定义工作班表 DSL 的数据模型：spec 的 JSON 形态以及
// 求解结果的结构化记录。字段全部采用 spec.md 中约定的小写下划线命名。
package dslmodel

// Spec 是编译器的输入：员工、日期、班次、场地、覆盖需求与约束的声明式描述。
// 在一次编译期间是不可变的。
type Spec struct {
	Sets        Sets              `json:"sets"`
	Shifts      map[string]Shift  `json:"shifts"`
	Employees   map[string]Employee `json:"employees"`
	Groups      map[string][]string `json:"groups,omitempty"`
	Demand      []Demand          `json:"demand,omitempty"`
	Constraints []Constraint      `json:"constraints,omitempty"`
	Objective   JSONMap           `json:"objective,omitempty"`
}

// JSONMap 用于存储任意形状的 JSON 对象。
type JSONMap map[string]interface{}

// Sets 枚举排班地平线涉及的全部标识符集合。
type Sets struct {
	Employees []string `json:"employees"`
	Days      []string `json:"days"`
	Shifts    []string `json:"shifts"`
	Sites     []string `json:"sites,omitempty"`
}

// SiteDefault 是 sets.sites 缺省时使用的哨兵场地。
const SiteDefault = "SITE_DEFAULT"

// OffShift 是 sets.shifts 中必须存在的"不上班"哨兵班次 id。
const OffShift = "OFF"

// EffectiveSites 返回声明的场地集合，缺省时回退到单例 SITE_DEFAULT。
func (s Sets) EffectiveSites() []string {
	if len(s.Sites) == 0 {
		return []string{SiteDefault}
	}
	return s.Sites
}

// DayIndex 构建 day label 到从零开始下标的映射。
func (s Sets) DayIndex() map[string]int {
	idx := make(map[string]int, len(s.Days))
	for i, d := range s.Days {
		idx[d] = i
	}
	return idx
}
