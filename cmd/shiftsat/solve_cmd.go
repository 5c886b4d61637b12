package main

import (
	"encoding/json"
	"fmt"

	"github.com/paiban/shiftsat/pkg/driver"
	"github.com/spf13/cobra"
)

func newSolveCmd() *cobra.Command {
	var maxTime int
	var workers int

	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "编译并求解 spec 文件，输出排班结果",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadSpecFile(args[0])
			if err != nil {
				return err
			}

			result, err := driver.Solve(driver.Request{Spec: spec, MaxTimeSeconds: maxTime, Workers: workers})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("序列化求解结果失败: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxTime, "max-time", 10, "求解时间上限（秒）")
	cmd.Flags().IntVar(&workers, "workers", 4, "并行求解 worker 数")

	return cmd
}
