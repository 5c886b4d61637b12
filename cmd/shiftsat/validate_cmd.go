package main

import (
	"encoding/json"
	"fmt"

	"github.com/paiban/shiftsat/pkg/driver"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "对 spec 文件做静态校验，不编译不求解",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadSpecFile(args[0])
			if err != nil {
				return err
			}

			result := driver.Validate(spec)
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("序列化校验结果失败: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !result.OK {
				return fmt.Errorf("spec 未通过校验（%d 条错误）", len(result.Errors))
			}
			return nil
		},
	}
	return cmd
}
