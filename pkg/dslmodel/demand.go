package dslmodel

// Demand 是一条覆盖需求：某个 (day, shift, site) 单元格需要的人数，
// 以及可选的技能/角色人数下限。基数用 eq 或 min/max 二选一表达。
type Demand struct {
	Day          string       `json:"day"`
	Shift        string       `json:"shift"`
	Site         string       `json:"site,omitempty"`
	Eq           *int         `json:"eq,omitempty"`
	Min          *int         `json:"min,omitempty"`
	Max          *int         `json:"max,omitempty"`
	Requirements Requirements `json:"requirements,omitempty"`
}

// Requirements 是需求条目上的技能/角色人数下限集合。
type Requirements struct {
	SkillsMin []SkillMin `json:"skills_min,omitempty"`
	RolesMin  []RoleMin  `json:"roles_min,omitempty"`
}

// SkillMin 要求在某个单元格中至少有 Min 名具备 Skill 技能的员工。
type SkillMin struct {
	Skill string `json:"skill"`
	Min   int    `json:"min"`
}

// RoleMin 要求在某个单元格中至少有 Min 名具备 Role 角色的员工。
type RoleMin struct {
	Role string `json:"role"`
	Min  int    `json:"min"`
}

// EffectiveSite 返回需求条目指定的场地，缺省时回退到 spec 声明的第一个场地。
func (d Demand) EffectiveSite(sp Spec) string {
	if d.Site != "" {
		return d.Site
	}
	sites := sp.Sets.EffectiveSites()
	if len(sites) == 0 {
		return SiteDefault
	}
	return sites[0]
}
