// Package jobqueue 实现异步求解任务队列：提交 spec 立即返回 job id，
// 求解在后台 goroutine 中进行，调用方轮询 job 状态取结果。
package jobqueue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/shiftsat/internal/metrics"
	"github.com/paiban/shiftsat/internal/specstore"
	"github.com/paiban/shiftsat/pkg/driver"
	"github.com/paiban/shiftsat/pkg/dslmodel"
	"github.com/paiban/shiftsat/pkg/logger"
)

// Status 是任务在其生命周期中的状态取值。
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Job 是一条异步求解任务的完整记录。
type Job struct {
	ID         string
	Status     Status
	Spec       dslmodel.Spec
	MaxTime    int
	Workers    int
	Result     dslmodel.Result
	Error      string
	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// snapshot 返回 Job 的值拷贝，避免调用方拿到内部指针后绕过锁读写。
func (j *Job) snapshot() Job {
	return *j
}

// Persister 是任务持久化的可选钩子，由 internal/specstore 的
// solver_jobs 表实现提供；Queue 本身不关心存储介质。
type Persister interface {
	SaveJob(ctx context.Context, jobID string, spec dslmodel.Spec, params specstore.JobParams) error
	UpdateJobRunning(ctx context.Context, jobID string) error
	UpdateJobDone(ctx context.Context, jobID string, result dslmodel.Result) error
	UpdateJobFailed(ctx context.Context, jobID string, reason string) error
}

// Queue 是一个进程内的任务表：提交即在新 goroutine 里跑 driver.Solve，
// Get 轮询当前状态。内存表始终是状态的权威来源；persist 非空时，
// 每次状态迁移额外写入 solver_jobs 表，供进程重启后追溯任务历史
// （查询仍然只读内存表，不读数据库）。没有 persist 时的行为与
// original_source 的 threading.Thread 方案一致，只是替换为 Go 的
// goroutine + 互斥表。
type Queue struct {
	mu      sync.Mutex
	jobs    map[string]*Job
	persist Persister
}

// New 创建一个空任务队列，不做持久化。
func New() *Queue {
	return &Queue{jobs: make(map[string]*Job)}
}

// NewWithPersistence 创建一个任务队列，每次状态迁移额外写入 persist。
func NewWithPersistence(persist Persister) *Queue {
	return &Queue{jobs: make(map[string]*Job), persist: persist}
}

// Submit 登记一个新任务并立即返回其 id；求解在后台异步进行。
func (q *Queue) Submit(spec dslmodel.Spec, maxTimeSeconds, workers int) string {
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Spec:      spec,
		MaxTime:   maxTimeSeconds,
		Workers:   workers,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	q.mu.Unlock()
	metrics.IncActiveJobs()

	if q.persist != nil {
		params := specstore.JobParams{MaxTimeSeconds: maxTimeSeconds, Workers: workers}
		if err := q.persist.SaveJob(context.Background(), job.ID, spec, params); err != nil {
			logger.NewCompilerLogger().JobFailed(job.ID, "登记任务持久化失败: "+err.Error())
		}
	}

	go q.run(job.ID)
	return job.ID
}

// run 在后台执行求解并把结果写回任务表；任何 panic 都被当作失败处理，
// 不让一次求解的异常拖垮整个队列 goroutine 池。
func (q *Queue) run(jobID string) {
	log := logger.NewCompilerLogger()

	q.mu.Lock()
	job := q.jobs[jobID]
	job.Status = StatusRunning
	job.StartedAt = time.Now()
	spec, maxTime, workers := job.Spec, job.MaxTime, job.Workers
	q.mu.Unlock()

	if q.persist != nil {
		_ = q.persist.UpdateJobRunning(context.Background(), jobID)
	}

	defer func() {
		if r := recover(); r != nil {
			q.mu.Lock()
			job.Status = StatusFailed
			job.Error = "求解过程发生内部错误"
			job.FinishedAt = time.Now()
			q.mu.Unlock()
			metrics.DecActiveJobs()
			log.JobFailed(jobID, "panic during solve")
			if q.persist != nil {
				_ = q.persist.UpdateJobFailed(context.Background(), jobID, "求解过程发生内部错误")
			}
		}
	}()

	result, err := driver.Solve(driver.Request{Spec: spec, MaxTimeSeconds: maxTime, Workers: workers})

	q.mu.Lock()
	job.FinishedAt = time.Now()
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		q.mu.Unlock()
		metrics.DecActiveJobs()
		log.JobFailed(jobID, err.Error())
		if q.persist != nil {
			_ = q.persist.UpdateJobFailed(context.Background(), jobID, err.Error())
		}
		return
	}
	job.Status = StatusDone
	job.Result = result
	q.mu.Unlock()
	metrics.DecActiveJobs()
	log.JobDone(jobID, result.Status)
	if q.persist != nil {
		_ = q.persist.UpdateJobDone(context.Background(), jobID, result)
	}
}

// Get 返回任务的当前快照，ok=false 表示 job id 不存在。
func (q *Queue) Get(jobID string) (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return job.snapshot(), true
}
