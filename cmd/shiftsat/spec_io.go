package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paiban/shiftsat/pkg/dslmodel"
)

// loadSpecFile 从磁盘读取并反序列化一个 spec JSON 文件。
func loadSpecFile(path string) (dslmodel.Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return dslmodel.Spec{}, fmt.Errorf("读取文件 %q 失败: %w", path, err)
	}
	var spec dslmodel.Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return dslmodel.Spec{}, fmt.Errorf("解析 spec 文件 %q 失败: %w", path, err)
	}
	return spec, nil
}
