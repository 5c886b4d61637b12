// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/paiban/shiftsat/internal/jobqueue"
	"github.com/paiban/shiftsat/pkg/driver"
	"github.com/paiban/shiftsat/pkg/dslmodel"
	"github.com/paiban/shiftsat/pkg/errors"
)

// SpecHandler 承载 validate/solve 的同步与异步端点（spec.md §6）。
type SpecHandler struct {
	queue                 *jobqueue.Queue
	defaultMaxTimeSeconds int
	defaultWorkers        int
	maxTimeSecondsCeiling int
}

// NewSpecHandler 创建 spec 处理器；queue 为 nil 时异步端点返回 500。
func NewSpecHandler(queue *jobqueue.Queue, defaultMaxTimeSeconds, defaultWorkers, maxTimeSecondsCeiling int) *SpecHandler {
	return &SpecHandler{
		queue:                 queue,
		defaultMaxTimeSeconds: defaultMaxTimeSeconds,
		defaultWorkers:        defaultWorkers,
		maxTimeSecondsCeiling: maxTimeSecondsCeiling,
	}
}

// solveRequest 是 solve 与 solve/async 两个端点共用的请求体。
type solveRequest struct {
	Spec           dslmodel.Spec `json:"spec"`
	MaxTimeSeconds int           `json:"max_time_seconds,omitempty"`
	Workers        int           `json:"workers,omitempty"`
}

func (h *SpecHandler) effectiveParams(req solveRequest) (maxTime, workers int) {
	maxTime = req.MaxTimeSeconds
	if maxTime <= 0 {
		maxTime = h.defaultMaxTimeSeconds
	}
	if h.maxTimeSecondsCeiling > 0 && maxTime > h.maxTimeSecondsCeiling {
		maxTime = h.maxTimeSecondsCeiling
	}
	workers = req.Workers
	if workers <= 0 {
		workers = h.defaultWorkers
	}
	return maxTime, workers
}

// Validate 处理 POST /api/v1/specs/validate：只做静态校验，不编译不求解。
func (h *SpecHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAppError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var spec dslmodel.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeAppError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析 spec 失败"))
		return
	}

	writeJSON(w, http.StatusOK, driver.Validate(spec))
}

// Solve 处理 POST /api/v1/specs/solve：同步调用 driver.Solve 并原样返回
// dslmodel.Result（spec.md §6 的成功响应形状）。
func (h *SpecHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAppError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	maxTime, workers := h.effectiveParams(req)

	result, err := driver.Solve(driver.Request{Spec: req.Spec, MaxTimeSeconds: maxTime, Workers: workers})
	if err != nil {
		writeAppErrorOrInternal(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SolveAsync 处理 POST /api/v1/specs/solve/async：立即返回 job id，
// 求解在后台进行，结果通过 GET /api/v1/jobs/{id} 轮询。
func (h *SpecHandler) SolveAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAppError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}
	if h.queue == nil {
		writeAppError(w, errors.New(errors.CodeInternal, "异步任务队列未启用"))
		return
	}

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	maxTime, workers := h.effectiveParams(req)

	jobID := h.queue.Submit(req.Spec, maxTime, workers)
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID, "status": string(jobqueue.StatusQueued)})
}

// GetJob 处理 GET /api/v1/jobs/{id}：返回任务当前状态，done 时附带结果。
func (h *SpecHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if h.queue == nil {
		writeAppError(w, errors.New(errors.CodeInternal, "异步任务队列未启用"))
		return
	}

	job, ok := h.queue.Get(jobID)
	if !ok {
		writeAppError(w, errors.NotFound("job", jobID))
		return
	}

	resp := map[string]interface{}{
		"job_id": job.ID,
		"status": job.Status,
	}
	switch job.Status {
	case jobqueue.StatusDone:
		resp["result"] = job.Result
	case jobqueue.StatusFailed:
		resp["error"] = job.Error
	}
	writeJSON(w, http.StatusOK, resp)
}

// ConstraintKindInfo 描述约束库目录中的一种 kind。
type ConstraintKindInfo struct {
	Kind string `json:"kind"`
	Type string `json:"type"` // hard / soft
}

// ConstraintLibrary 处理 GET /api/v1/constraints/library：列出封闭的
// constraint kind 分类表，供客户端构建约束编辑 UI。
func ConstraintLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAppError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	var kinds []ConstraintKindInfo
	for k := range dslmodel.HardKinds {
		kinds = append(kinds, ConstraintKindInfo{Kind: string(k), Type: "hard"})
	}
	for k := range dslmodel.SoftOnlyKinds {
		kinds = append(kinds, ConstraintKindInfo{Kind: string(k), Type: "soft"})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"kinds": kinds})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeAppError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
		"fields":  err.Fields,
	})
}

// writeAppErrorOrInternal 把 driver.Solve 返回的 error 当作 *errors.AppError
// 处理，非该类型时兜底为 500。
func writeAppErrorOrInternal(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if as, ok := err.(*errors.AppError); ok {
		appErr = as
	} else {
		appErr = errors.Wrap(err, errors.CodeInternal, "求解失败")
	}
	writeAppError(w, appErr)
}
