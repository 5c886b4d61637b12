// ShiftSAT 命令行工具：对排班 DSL spec 文件做静态校验、求解、保存/读取。
package main

import (
	"fmt"
	"os"

	"github.com/paiban/shiftsat/pkg/logger"
)

func main() {
	logger.Init(logger.Config{Level: "warn", Format: "console"})

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
