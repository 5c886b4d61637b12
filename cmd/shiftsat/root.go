package main

import "github.com/spf13/cobra"

// newRootCmd 创建顶层 "shiftsat" 命令并挂载所有子命令。
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shiftsat",
		Short: "排班约束满足 DSL 的编译/求解命令行工具",
	}

	root.AddCommand(
		newValidateCmd(),
		newSolveCmd(),
		newSpecsCmd(),
	)

	return root
}
