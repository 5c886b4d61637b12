// Package compiler 翻译一份通过校验的 spec 为 CP 模型（决策变量、线性/
// 指示约束与线性目标），对应 spec.md §4.4 的 Model Compiler。
package compiler

import "github.com/paiban/shiftsat/pkg/cpmodel"

// term 是线性表达式中的一项：系数与变量。
type term struct {
	coef float64
	v    cpmodel.Var
}

// expr 是 Σ coef·var 形式的线性表达式，purely 是累加容器，不持有
// 模型状态；只有把它加入约束或目标时才会写入 cpmodel.Model。
type expr []term

func single(coef float64, v cpmodel.Var) expr {
	return expr{{coef: coef, v: v}}
}

func (e expr) plus(other expr) expr {
	return append(append(expr{}, e...), other...)
}

// addTo 把表达式的每一项累加进一个已开始构建的线性/指示约束。
func (e expr) addTo(c *cpmodel.Constraint) *cpmodel.Constraint {
	for _, t := range e {
		c.NewTerm(t.coef, t.v)
	}
	return c
}

// addToObjective 把表达式的每一项按系数累加进目标函数。
func (e expr) addToObjective(o *cpmodel.Objective) *cpmodel.Objective {
	for _, t := range e {
		o.NewTerm(t.coef, t.v)
	}
	return o
}

// auxEqualsExpr 声明一个取值范围 [lb,ub] 的整数变量 aux，并添加等式约束
// aux == expr（即 aux − Σ coef·var == 0），返回 aux。用于把 works_shift /
// works_day 之类的求和固化为一个可供后续约束或目标引用的单一变量。
func auxEqualsExpr(model *cpmodel.Model, e expr, lb, ub int) cpmodel.Var {
	aux := model.NewIntVar(lb, ub)
	c := model.NewConstraint(cpmodel.Equal, 0)
	c.NewTerm(1, aux)
	for _, t := range e {
		c.NewTerm(-t.coef, t.v)
	}
	return aux
}
