// Package specstore 提供 spec 与求解结果的 Postgres 持久化，供
// `specs save|load` 使用，并为异步任务记录状态与结果（solver_jobs 只写不读）。
package specstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/shiftsat/internal/config"
	"github.com/paiban/shiftsat/pkg/dslmodel"
	"github.com/paiban/shiftsat/pkg/logger"

	_ "github.com/lib/pq" // PostgreSQL 驱动
)

// Store 封装 spec/结果的数据库连接。
type Store struct {
	db  *sql.DB
	cfg *config.DatabaseConfig
}

// Open 建立数据库连接并做一次 ping 探测。
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("打开数据库连接失败: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	logger.Info().Str("host", cfg.Host).Int("port", cfg.Port).Str("database", cfg.Name).Msg("specstore 数据库连接成功")
	return &Store{db: db, cfg: cfg}, nil
}

// Close 关闭底层连接。
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Schema 是建表 DDL，供启动时或迁移脚本执行；不在 Open 中自动运行，
// 避免应用在无迁移权限的受限数据库角色下无法启动。
const Schema = `
CREATE TABLE IF NOT EXISTS specs (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	spec_json   JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (name)
);

CREATE TABLE IF NOT EXISTS solver_jobs (
	job_id      UUID PRIMARY KEY,
	status      TEXT NOT NULL,
	spec_json   JSONB NOT NULL,
	params_json JSONB NOT NULL,
	result_json JSONB,
	error       TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	started_at  TIMESTAMPTZ,
	finished_at TIMESTAMPTZ
);
`

// SaveSpec 按名字存入一份 spec（存在则覆盖），返回行 id。
func (s *Store) SaveSpec(ctx context.Context, name string, spec dslmodel.Spec) (uuid.UUID, error) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("序列化 spec 失败: %w", err)
	}

	id := uuid.New()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO specs (id, name, spec_json, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (name) DO UPDATE SET spec_json = EXCLUDED.spec_json, updated_at = now()
	`, id, name, raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("写入 spec 失败: %w", err)
	}
	return id, nil
}

// LoadSpec 按名字取回一份 spec。
func (s *Store) LoadSpec(ctx context.Context, name string) (dslmodel.Spec, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT spec_json FROM specs WHERE name = $1`, name).Scan(&raw)
	if err == sql.ErrNoRows {
		return dslmodel.Spec{}, fmt.Errorf("spec %q 不存在", name)
	}
	if err != nil {
		return dslmodel.Spec{}, fmt.Errorf("读取 spec 失败: %w", err)
	}

	var spec dslmodel.Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return dslmodel.Spec{}, fmt.Errorf("反序列化 spec 失败: %w", err)
	}
	return spec, nil
}

// ListSpecs 列出所有已保存的 spec 名字。
func (s *Store) ListSpecs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM specs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("列出 spec 失败: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// JobParams 是异步任务提交时的求解参数，随 job 一并持久化。
type JobParams struct {
	MaxTimeSeconds int `json:"max_time_seconds"`
	Workers        int `json:"workers"`
}

// SaveJob 在 solver_jobs 表中登记一条新任务，初始状态为 queued。
// 供 internal/jobqueue 在启用持久化模式时调用；默认的纯内存队列
// 不调用本方法。
func (s *Store) SaveJob(ctx context.Context, jobID string, spec dslmodel.Spec, params JobParams) error {
	specRaw, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("序列化 spec 失败: %w", err)
	}
	paramsRaw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("序列化求解参数失败: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO solver_jobs (job_id, status, spec_json, params_json, created_at)
		VALUES ($1, 'queued', $2, $3, now())
	`, jobID, specRaw, paramsRaw)
	if err != nil {
		return fmt.Errorf("登记任务失败: %w", err)
	}
	return nil
}

// UpdateJobRunning 把任务标记为 running 并记录开始时间。
func (s *Store) UpdateJobRunning(ctx context.Context, jobID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE solver_jobs SET status = 'running', started_at = now() WHERE job_id = $1
	`, jobID)
	if err != nil {
		return fmt.Errorf("更新任务状态失败: %w", err)
	}
	return nil
}

// UpdateJobDone 把任务标记为 done 并写入求解结果。
func (s *Store) UpdateJobDone(ctx context.Context, jobID string, result dslmodel.Result) error {
	resultRaw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("序列化求解结果失败: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE solver_jobs SET status = 'done', result_json = $2, finished_at = now() WHERE job_id = $1
	`, jobID, resultRaw)
	if err != nil {
		return fmt.Errorf("更新任务结果失败: %w", err)
	}
	return nil
}

// UpdateJobFailed 把任务标记为 failed 并记录错误信息。
func (s *Store) UpdateJobFailed(ctx context.Context, jobID string, reason string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE solver_jobs SET status = 'failed', error = $2, finished_at = now() WHERE job_id = $1
	`, jobID, reason)
	if err != nil {
		return fmt.Errorf("更新任务错误失败: %w", err)
	}
	return nil
}
