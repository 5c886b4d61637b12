package report

import (
	"math"
	"sort"

	"github.com/paiban/shiftsat/pkg/dslmodel"
)

// FairnessMetrics 是一次求解结果的公平性统计，基于每位员工的工作分钟数。
type FairnessMetrics struct {
	WorkloadGini        float64        `json:"workload_gini"`         // 工时基尼系数（0=完全公平，1=完全不公平）
	WorkloadStdDev      float64        `json:"workload_std_dev"`      // 工时标准差（分钟）
	AvgMinutesPerEmployee float64      `json:"avg_minutes_per_employee"`
	MaxMinutes          int            `json:"max_minutes"`
	MinMinutes          int            `json:"min_minutes"`
	EmployeeStats       []EmployeeStat `json:"employee_stats"`
}

// EmployeeStat 是单个员工的工时/班次统计，按工时降序排列。
type EmployeeStat struct {
	EmployeeID   string `json:"employee_id"`
	MinutesWorked int   `json:"minutes_worked"`
	ShiftCount   int    `json:"shift_count"`
}

// FairnessAnalyzer 基于 Result.Metrics 计算员工间工作量的公平性指标。
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器。
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 统计 result.Metrics 中各员工工时的分布情况。spec.Sets.Employees
// 的顺序决定了未工作员工（minutes_worked 缺省为 0）也会被计入。
func (f *FairnessAnalyzer) Analyze(spec dslmodel.Spec, result dslmodel.Result) *FairnessMetrics {
	if result.Metrics == nil || len(spec.Sets.Employees) == 0 {
		return &FairnessMetrics{}
	}

	stats := make([]EmployeeStat, 0, len(spec.Sets.Employees))
	minutes := make([]float64, 0, len(spec.Sets.Employees))
	for _, eid := range spec.Sets.Employees {
		m := result.Metrics.MinutesWorked[eid]
		count := 0
		for _, n := range result.Metrics.ShiftCounts[eid] {
			count += n
		}
		stats = append(stats, EmployeeStat{EmployeeID: eid, MinutesWorked: m, ShiftCount: count})
		minutes = append(minutes, float64(m))
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].MinutesWorked > stats[j].MinutesWorked })

	avg := mean(minutes)
	maxM, minM := minutes[0], minutes[0]
	for _, v := range minutes[1:] {
		if v > maxM {
			maxM = v
		}
		if v < minM {
			minM = v
		}
	}

	return &FairnessMetrics{
		WorkloadGini:          gini(minutes),
		WorkloadStdDev:        math.Sqrt(variance(minutes, avg)),
		AvgMinutesPerEmployee: avg,
		MaxMinutes:            int(maxM),
		MinMinutes:            int(minM),
		EmployeeStats:         stats,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

// gini 计算基尼系数，沿用排序后前缀和的标准公式。
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g /= float64(n) * sum
	return math.Max(0, math.Min(1, g))
}
