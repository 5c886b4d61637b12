// Package report 对已求解的排班结果做覆盖率/公平性汇总；cmd/shiftsat 的子命令目前不调用它。
// 它只读取 dslmodel.Spec/Result，不参与编译或求解本身。
package report

import "github.com/paiban/shiftsat/pkg/dslmodel"

// CoverageMetrics 是一次求解结果的覆盖率统计。
type CoverageMetrics struct {
	TotalCells      int                `json:"total_cells"`       // demand 中的 (day,shift,site) 单元格总数
	SatisfiedCells  int                `json:"satisfied_cells"`   // 已满足基数要求的单元格数
	OverallCoverage float64            `json:"overall_coverage"`  // 覆盖率 (%)
	DailyCoverage   map[string]float64 `json:"daily_coverage"`    // 按天覆盖率 (%)
	ShiftCoverage   map[string]float64 `json:"shift_coverage"`    // 按班次类型覆盖率 (%)
	Unsatisfied     []UnsatisfiedCell  `json:"unsatisfied_cells"` // 未满足基数要求的单元格
}

// UnsatisfiedCell 描述一个人数不足/不等的 demand 单元格。
type UnsatisfiedCell struct {
	Day      string `json:"day"`
	Shift    string `json:"shift"`
	Site     string `json:"site"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
}

// CoverageAnalyzer 基于 spec.Demand 与求解结果计算覆盖率指标。
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器。
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 统计 result.Schedule 相对 spec.Demand 的覆盖情况。result 必须是
// 成功求解的结果（status=="ok"）；调用方负责先检查这一点。
func (c *CoverageAnalyzer) Analyze(spec dslmodel.Spec, result dslmodel.Result) *CoverageMetrics {
	metrics := &CoverageMetrics{
		DailyCoverage: make(map[string]float64),
		ShiftCoverage: make(map[string]float64),
	}
	if len(spec.Demand) == 0 {
		metrics.OverallCoverage = 100
		return metrics
	}

	dailySatisfied := make(map[string]int)
	dailyTotal := make(map[string]int)
	shiftSatisfied := make(map[string]int)
	shiftTotal := make(map[string]int)

	for _, d := range spec.Demand {
		site := d.EffectiveSite(spec)
		assigned := len(result.Schedule.SiteShifts(d.Day, site)[d.Shift])
		required, _ := requiredCount(d)

		dailyTotal[d.Day]++
		shiftTotal[d.Shift]++
		metrics.TotalCells++

		satisfied := cellSatisfied(d, assigned)
		if satisfied {
			metrics.SatisfiedCells++
			dailySatisfied[d.Day]++
			shiftSatisfied[d.Shift]++
		} else {
			metrics.Unsatisfied = append(metrics.Unsatisfied, UnsatisfiedCell{
				Day:      d.Day,
				Shift:    d.Shift,
				Site:     site,
				Required: required,
				Assigned: assigned,
			})
		}
	}

	metrics.OverallCoverage = percent(metrics.SatisfiedCells, metrics.TotalCells)
	for day, total := range dailyTotal {
		metrics.DailyCoverage[day] = percent(dailySatisfied[day], total)
	}
	for shift, total := range shiftTotal {
		metrics.ShiftCoverage[shift] = percent(shiftSatisfied[shift], total)
	}

	return metrics
}

// requiredCount 返回单元格的目标人数，供报告展示；eq 优先，否则用 min
// （max 没有单一的"目标"人数可展示）。
func requiredCount(d dslmodel.Demand) (int, bool) {
	switch {
	case d.Eq != nil:
		return *d.Eq, true
	case d.Min != nil:
		return *d.Min, true
	default:
		return 0, false
	}
}

func cellSatisfied(d dslmodel.Demand, assigned int) bool {
	if d.Eq != nil {
		return assigned == *d.Eq
	}
	ok := true
	if d.Min != nil {
		ok = ok && assigned >= *d.Min
	}
	if d.Max != nil {
		ok = ok && assigned <= *d.Max
	}
	return ok
}

func percent(part, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(part) / float64(total) * 100
}
