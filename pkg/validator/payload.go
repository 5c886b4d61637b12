package validator

import "github.com/paiban/shiftsat/pkg/dslmodel"

// 下列函数从松散类型的 constraint.data（JSON 对象，解码为
// map[string]interface{}）中按 kind 约定的键提取强类型值。JSON 数字一律
// 解码为 float64，因此"非整数"与"负数"都要在这里显式判断，呼应上游
// Python 实现里 isinstance(..., int) 式的防御性检查。

func intField(data dslmodel.JSONMap, key string) (int, bool, bool) {
	raw, ok := data[key]
	if !ok {
		return 0, false, false
	}
	f, isFloat := raw.(float64)
	if !isFloat {
		return 0, true, false
	}
	if f != float64(int(f)) {
		return 0, true, false
	}
	return int(f), true, true
}

func stringListField(data dslmodel.JSONMap, key string) ([]string, bool) {
	raw, ok := data[key]
	if !ok {
		return nil, false
	}
	items, isList := raw.([]interface{})
	if !isList {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func mapListField(data dslmodel.JSONMap, key string) ([]map[string]interface{}, bool) {
	raw, ok := data[key]
	if !ok {
		return nil, false
	}
	items, isList := raw.([]interface{})
	if !isList {
		return nil, false
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, false
		}
		out = append(out, m)
	}
	return out, true
}

func stringSubField(m map[string]interface{}, key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}
