package compiler

import (
	"fmt"

	"github.com/paiban/shiftsat/internal/metrics"
	"github.com/paiban/shiftsat/pkg/cpmodel"
	"github.com/paiban/shiftsat/pkg/dslmodel"
	pkgerrors "github.com/paiban/shiftsat/pkg/errors"
	"github.com/paiban/shiftsat/pkg/logger"
	"github.com/paiban/shiftsat/pkg/scope"
)

// Compile translates a validated spec into a CP model: it declares the
// decision-variable table, emits coverage constraints, then walks
// spec.Constraints dispatching each by kind (spec.md §4.4). Callers are
// expected to have already run validator.Validate; Compile re-checks
// kind payloads defensively but does not repeat the full validation pass.
func Compile(spec dslmodel.Spec) (*cpmodel.Model, *VarTable, error) {
	log := logger.NewCompilerLogger()
	log.StartCompile(len(spec.Sets.Employees), len(spec.Sets.Days), len(spec.Constraints))

	model := cpmodel.NewModel()
	vt := newVarTable(model, spec)

	if err := compileCoverage(model, vt, spec); err != nil {
		return nil, nil, err
	}

	for _, ct := range spec.Constraints {
		empIDs := scope.Select(spec, ct.Scope)
		employees := make([]int, 0, len(empIDs))
		for _, eid := range empIDs {
			if idx, ok := vt.EmployeeIndex(eid); ok {
				employees = append(employees, idx)
			}
		}

		var err error
		switch {
		case dslmodel.HardKinds[ct.Kind]:
			err = compileHard(model, vt, spec, ct, employees)
		case dslmodel.SoftOnlyKinds[ct.Kind]:
			err = compileSoft(model, vt, spec, ct, employees)
		default:
			err = pkgerrors.SpecInvalidValue("kind", fmt.Sprintf("constraint %q: unsupported kind %q", ct.ID, ct.Kind))
		}
		if err != nil {
			return nil, nil, err
		}
		log.ConstraintCompiled(ct.ID, string(ct.Kind), len(employees))
		metrics.RecordConstraintCompiled(string(ct.Kind))
	}

	return model, vt, nil
}
