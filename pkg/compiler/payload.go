package compiler

import (
	"fmt"
	"strconv"

	"github.com/paiban/shiftsat/pkg/dslmodel"
	pkgerrors "github.com/paiban/shiftsat/pkg/errors"
)

// The validator already rejects a malformed spec before it reaches the
// compiler; these helpers are the "belt-and-braces duplication of
// validate" spec.md §7 calls for — they raise SpecMissingField/
// SpecInvalidValue immediately on the first offending constraint instead
// of accumulating, since the compiler does not produce a report, it
// either succeeds or fails outright.

func requiredIntField(data dslmodel.JSONMap, key, constraintID string) (int, error) {
	raw, ok := data[key]
	if !ok {
		return 0, pkgerrors.SpecMissingField(key, fmt.Sprintf("constraint %q requires data.%s", constraintID, key))
	}
	f, isFloat := raw.(float64)
	if !isFloat || f != float64(int(f)) {
		return 0, pkgerrors.SpecInvalidValue(key, fmt.Sprintf("constraint %q: data.%s must be an integer", constraintID, key))
	}
	return int(f), nil
}

func optionalIntField(data dslmodel.JSONMap, key string, def int) (int, error) {
	raw, ok := data[key]
	if !ok {
		return def, nil
	}
	f, isFloat := raw.(float64)
	if !isFloat || f != float64(int(f)) {
		return 0, pkgerrors.SpecInvalidValue(key, fmt.Sprintf("data.%s must be an integer", key))
	}
	return int(f), nil
}

func requiredStringListField(data dslmodel.JSONMap, key, constraintID string) ([]string, error) {
	raw, ok := data[key]
	if !ok {
		return nil, pkgerrors.SpecMissingField(key, fmt.Sprintf("constraint %q requires data.%s", constraintID, key))
	}
	items, isList := raw.([]interface{})
	if !isList || len(items) == 0 {
		return nil, pkgerrors.SpecInvalidValue(key, fmt.Sprintf("constraint %q: data.%s must be a non-empty list", constraintID, key))
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, pkgerrors.SpecInvalidValue(key, fmt.Sprintf("constraint %q: data.%s entries must be strings", constraintID, key))
		}
		out = append(out, s)
	}
	return out, nil
}

func optionalStringListField(data dslmodel.JSONMap, key string) ([]string, bool, error) {
	raw, ok := data[key]
	if !ok {
		return nil, false, nil
	}
	items, isList := raw.([]interface{})
	if !isList {
		return nil, true, pkgerrors.SpecInvalidValue(key, fmt.Sprintf("data.%s must be a list", key))
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, true, pkgerrors.SpecInvalidValue(key, fmt.Sprintf("data.%s entries must be strings", key))
		}
		out = append(out, s)
	}
	return out, true, nil
}

func optionalStringField(data dslmodel.JSONMap, key, def string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", pkgerrors.SpecInvalidValue(key, fmt.Sprintf("data.%s must be a string", key))
	}
	return s, nil
}

func requiredStringField(data dslmodel.JSONMap, key, constraintID string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", pkgerrors.SpecMissingField(key, fmt.Sprintf("constraint %q requires data.%s", constraintID, key))
	}
	s, ok := raw.(string)
	if !ok {
		return "", pkgerrors.SpecInvalidValue(key, fmt.Sprintf("constraint %q: data.%s must be a string", constraintID, key))
	}
	return s, nil
}

func requiredMapListField(data dslmodel.JSONMap, key, constraintID string) ([]map[string]interface{}, error) {
	raw, ok := data[key]
	if !ok {
		return nil, pkgerrors.SpecMissingField(key, fmt.Sprintf("constraint %q requires data.%s", constraintID, key))
	}
	items, isList := raw.([]interface{})
	if !isList || len(items) == 0 {
		return nil, pkgerrors.SpecInvalidValue(key, fmt.Sprintf("constraint %q: data.%s must be a non-empty list", constraintID, key))
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, pkgerrors.SpecInvalidValue(key, fmt.Sprintf("constraint %q: data.%s entries must be objects", constraintID, key))
		}
		out = append(out, m)
	}
	return out, nil
}

func stringSubField(m map[string]interface{}, key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// parseIntStrict parses an explicit fair_distribution.target string. A
// malformed value is an Internal error rather than SpecInvalidValue — an
// open question in spec.md §9 resolved verbatim in favor of the upstream
// behavior (see DESIGN.md).
func parseIntStrict(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, pkgerrors.Wrap(err, pkgerrors.CodeInternal, fmt.Sprintf("fair_distribution.target %q is not an integer", s))
	}
	return v, nil
}
