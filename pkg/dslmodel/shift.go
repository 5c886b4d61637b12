package dslmodel

// Shift 是一个班次的定义：起止时刻、时长与是否计入工作班次。
//
// IsWork 使用指针以便区分"未声明"（默认为 true）与显式声明的 false；
// OFF 的隐式定义是 {00:00, 00:00, 0, is_work=false}。
type Shift struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Minutes int    `json:"minutes"`
	IsWork  *bool  `json:"is_work,omitempty"`
}

// EffectiveIsWork 返回 is_work 的有效值，缺省为 true。
func (s Shift) EffectiveIsWork() bool {
	if s.IsWork == nil {
		return true
	}
	return *s.IsWork
}

// ImplicitOff 是 sets.shifts 中声明了 OFF 但未提供定义时使用的默认值。
func ImplicitOff() Shift {
	f := false
	return Shift{Start: "00:00", End: "00:00", Minutes: 0, IsWork: &f}
}

// WorkShifts 返回 sets.shifts 中 is_work=true 的子序列（不含 OFF），
// 顺序与声明顺序一致。未声明定义的非 OFF 班次视为不存在于 WorkShifts
// 之中（validator 会先行拒绝这种 spec）。
func (sp Spec) WorkShifts() []string {
	var out []string
	for _, sid := range sp.Sets.Shifts {
		if sid == OffShift {
			continue
		}
		def, ok := sp.Shifts[sid]
		if !ok {
			continue
		}
		if def.EffectiveIsWork() {
			out = append(out, sid)
		}
	}
	return out
}

// ShiftDef 返回班次 sid 的有效定义，对 OFF 应用隐式默认值。
func (sp Spec) ShiftDef(sid string) (Shift, bool) {
	if def, ok := sp.Shifts[sid]; ok {
		return def, true
	}
	if sid == OffShift {
		return ImplicitOff(), true
	}
	return Shift{}, false
}
