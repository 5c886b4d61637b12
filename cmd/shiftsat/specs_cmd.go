package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paiban/shiftsat/internal/config"
	"github.com/paiban/shiftsat/internal/specstore"
	"github.com/spf13/cobra"
)

// newSpecsCmd 挂载 "specs save" / "specs load"，都连接 internal/specstore
// 的 Postgres 后端；连接信息取自环境变量（与 internal/config.Load 一致）。
func newSpecsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "在数据库中保存/读取已命名的 spec",
	}
	cmd.AddCommand(newSpecsSaveCmd(), newSpecsLoadCmd())
	return cmd
}

func openStore() (*specstore.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("加载数据库配置失败: %w", err)
	}
	return specstore.Open(&cfg.Database)
}

func newSpecsSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <name> <file>",
		Short: "把一个 spec 文件以指定名字存入数据库",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			spec, err := loadSpecFile(path)
			if err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := store.SaveSpec(context.Background(), name, spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已保存 spec %q (id=%s)\n", name, id)
			return nil
		},
	}
	return cmd
}

func newSpecsLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "按名字从数据库读取一个 spec 并打印为 JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			spec, err := store.LoadSpec(context.Background(), args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(spec, "", "  ")
			if err != nil {
				return fmt.Errorf("序列化 spec 失败: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return cmd
}
