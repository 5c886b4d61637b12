// Package driver configures the CP backend, invokes the solve, and
// materializes the result schedule + per-employee metrics (spec.md §4.5).
package driver

import (
	"time"

	"github.com/paiban/shiftsat/internal/metrics"
	"github.com/paiban/shiftsat/pkg/compiler"
	"github.com/paiban/shiftsat/pkg/cpmodel"
	"github.com/paiban/shiftsat/pkg/dslmodel"
	pkgerrors "github.com/paiban/shiftsat/pkg/errors"
	"github.com/paiban/shiftsat/pkg/logger"
	"github.com/paiban/shiftsat/pkg/validator"
)

// Request bundles a spec with the backend configuration spec.md §6's
// solve(spec, max_time_seconds, workers) entry point takes.
type Request struct {
	Spec           dslmodel.Spec
	MaxTimeSeconds int
	Workers        int
}

// Solve runs validate → compile → solve → materialize. The validator
// runs unconditionally before compilation (spec.md §4.1), so a spec that
// fails validation never reaches the compiler.
func Solve(req Request) (dslmodel.Result, error) {
	total := time.Now()
	status := "error"
	defer func() { metrics.RecordSolve(status, time.Since(total)) }()

	vr := validator.Validate(req.Spec)
	if !vr.OK {
		status = "validation_error"
		err := pkgerrors.New(pkgerrors.CodeValidationFail, "spec 未通过校验，无法编译")
		err.Fields = map[string]interface{}{"errors": vr.Errors}
		return dslmodel.Result{}, err
	}

	model, vt, err := compiler.Compile(req.Spec)
	if err != nil {
		status = "compile_error"
		return dslmodel.Result{}, err
	}

	log := logger.NewCompilerLogger()
	maxTime := time.Duration(req.MaxTimeSeconds) * time.Second
	log.SolveStart(maxTime, req.Workers)

	start := time.Now()
	sol, err := cpmodel.NewSolver(model).Solve(cpmodel.SolveOptions{MaxTime: maxTime, Workers: req.Workers})
	if err != nil {
		status = "solver_error"
		return dslmodel.Result{}, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "求解器调用失败")
	}
	log.SolveComplete(sol.Status().String(), time.Since(start), sol.ObjectiveValue())

	switch sol.Status() {
	case cpmodel.StatusOptimal, cpmodel.StatusFeasible:
		status = dslmodel.StatusOK
		return materialize(req.Spec, vt, sol), nil
	default:
		// INFEASIBLE, UNKNOWN and MODEL_INVALID are all reported the same
		// way: no distinction between infeasibility and timeout (spec.md §4.5).
		status = dslmodel.StatusNoSolution
		return dslmodel.NoSolutionResult(), nil
	}
}

// Validate is a thin pass-through to validator.Validate, kept here so
// callers that only import pkg/driver get both core entry points from
// spec.md §6 without a second import.
func Validate(spec dslmodel.Spec) validator.Result {
	return validator.Validate(spec)
}
