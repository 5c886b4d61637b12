package report

import (
	"testing"

	"github.com/paiban/shiftsat/pkg/dslmodel"
)

func TestFairnessAnalyzer_EqualWorkloadIsGiniZero(t *testing.T) {
	spec := dslmodel.Spec{Sets: dslmodel.Sets{Employees: []string{"P1", "P2"}}}
	result := dslmodel.Result{
		Status: dslmodel.StatusOK,
		Metrics: &dslmodel.Metrics{
			MinutesWorked: map[string]int{"P1": 480, "P2": 480},
			ShiftCounts:   map[string]map[string]int{"P1": {"M": 1}, "P2": {"M": 1}},
		},
	}

	metrics := NewFairnessAnalyzer().Analyze(spec, result)
	if metrics.WorkloadGini != 0 {
		t.Fatalf("expected gini 0 for equal workload, got %v", metrics.WorkloadGini)
	}
	if metrics.AvgMinutesPerEmployee != 480 {
		t.Fatalf("expected avg 480, got %v", metrics.AvgMinutesPerEmployee)
	}
}

func TestFairnessAnalyzer_UnequalWorkloadIsPositiveGini(t *testing.T) {
	spec := dslmodel.Spec{Sets: dslmodel.Sets{Employees: []string{"P1", "P2"}}}
	result := dslmodel.Result{
		Status: dslmodel.StatusOK,
		Metrics: &dslmodel.Metrics{
			MinutesWorked: map[string]int{"P1": 960, "P2": 0},
			ShiftCounts:   map[string]map[string]int{"P1": {"M": 2}},
		},
	}

	metrics := NewFairnessAnalyzer().Analyze(spec, result)
	if metrics.WorkloadGini <= 0 {
		t.Fatalf("expected positive gini for unequal workload, got %v", metrics.WorkloadGini)
	}
	if metrics.MaxMinutes != 960 || metrics.MinMinutes != 0 {
		t.Fatalf("unexpected min/max: %+v", metrics)
	}
}

func TestFairnessAnalyzer_EmployeeNeverAssignedCountsAsZero(t *testing.T) {
	spec := dslmodel.Spec{Sets: dslmodel.Sets{Employees: []string{"P1", "P2", "P3"}}}
	result := dslmodel.Result{
		Status: dslmodel.StatusOK,
		Metrics: &dslmodel.Metrics{
			MinutesWorked: map[string]int{"P1": 480},
			ShiftCounts:   map[string]map[string]int{"P1": {"M": 1}},
		},
	}

	metrics := NewFairnessAnalyzer().Analyze(spec, result)
	if len(metrics.EmployeeStats) != 3 {
		t.Fatalf("expected 3 employee stats, got %d", len(metrics.EmployeeStats))
	}
}
