// file: services/analysis_worker.go
package services

import (
	"ByteList/database"
	"ByteList/models"
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// AnalysisWorker 消费分析 outbox：认领到期的 pending 任务行，跑完整流水线，
// 失败按 30s × 尝试次数 延迟重试，到达上限后置为 failed（作品永久保持未评分，
// 只留日志，绝不回头打扰提交者）。
type AnalysisWorker struct {
	Analyzer    *Analyzer
	Interval    time.Duration
	MaxAttempts uint
	RetryBase   time.Duration
	Now         func() time.Time
}

func NewAnalysisWorker(analyzer *Analyzer, interval time.Duration, maxAttempts uint, retryBase time.Duration) *AnalysisWorker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts == 0 {
		maxAttempts = 5
	}
	if retryBase <= 0 {
		retryBase = 30 * time.Second
	}
	return &AnalysisWorker{
		Analyzer:    analyzer,
		Interval:    interval,
		MaxAttempts: maxAttempts,
		RetryBase:   retryBase,
		Now:         time.Now,
	}
}

// RetryDelay 第 attempt 次失败后的重试延迟（attempt 从 1 计）
func (w *AnalysisWorker) RetryDelay(attempt uint) time.Duration {
	return time.Duration(attempt) * w.RetryBase
}

// Start 启动消费循环，ctx 取消后停止。
func (w *AnalysisWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		log.Printf("Analysis worker started, interval=%s, max attempts=%d", w.Interval, w.MaxAttempts)
		for {
			select {
			case <-ctx.Done():
				log.Println("Analysis worker stopped.")
				return
			case <-ticker.C:
				w.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce 处理当前所有到期的 pending 任务。
func (w *AnalysisWorker) RunOnce(ctx context.Context) {
	now := w.Now()
	var ids []uint64
	err := database.DB.Model(&models.AnalysisJob{}).
		Where("status = ? AND next_run_at <= ?", models.AnalysisJobPending, now).
		Order("next_run_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("Analysis worker: due-job query failed: %v", err)
		return
	}

	for _, id := range ids {
		w.runJob(ctx, id)
	}
}

// runJob 认领并执行单个任务。认领是 pending→running 的条件更新，
// 0 行生效说明被并发 worker 抢走，直接跳过。
func (w *AnalysisWorker) runJob(ctx context.Context, jobID uint64) {
	res := database.DB.Model(&models.AnalysisJob{}).
		Where("id = ? AND status = ?", jobID, models.AnalysisJobPending).
		Updates(map[string]interface{}{
			"status":   models.AnalysisJobRunning,
			"attempts": gorm.Expr("attempts + 1"),
		})
	if res.Error != nil {
		log.Printf("Analysis worker: claim job %d failed: %v", jobID, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		return
	}

	var job models.AnalysisJob
	if err := database.DB.First(&job, jobID).Error; err != nil {
		log.Printf("Analysis worker: reload job %d failed: %v", jobID, err)
		return
	}

	err := w.Analyzer.Analyze(ctx, job.RepoPostID, job.Force)
	switch {
	case err == nil:
		w.finishJob(job.ID, models.AnalysisJobDone, "")
	case errors.Is(err, ErrAlreadyAnalyzed):
		// 幂等跳过算成功：结果已经在库里了
		w.finishJob(job.ID, models.AnalysisJobDone, err.Error())
	default:
		// 上游故障、格式错误等一律走退避重试
		w.rescheduleOrFail(&job, err)
	}
}

func (w *AnalysisWorker) finishJob(jobID uint64, status models.AnalysisJobStatus, lastError string) {
	err := database.DB.Model(&models.AnalysisJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{"status": status, "last_error": lastError}).Error
	if err != nil {
		log.Printf("Analysis worker: finish job %d failed: %v", jobID, err)
	}
}

// rescheduleOrFail 失败后的退避调度；尝试耗尽则终态 failed。
func (w *AnalysisWorker) rescheduleOrFail(job *models.AnalysisJob, cause error) {
	if job.Attempts >= w.MaxAttempts {
		log.Printf("Analysis worker: job %d (post %d) permanently failed after %d attempt(s): %v",
			job.ID, job.RepoPostID, job.Attempts, cause)
		w.finishJob(job.ID, models.AnalysisJobFailed, cause.Error())
		return
	}

	delay := w.RetryDelay(job.Attempts)
	log.Printf("Analysis worker: job %d (post %d) attempt %d failed, retrying in %s: %v",
		job.ID, job.RepoPostID, job.Attempts, delay, cause)
	err := database.DB.Model(&models.AnalysisJob{}).
		Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"status":      models.AnalysisJobPending,
			"next_run_at": w.Now().Add(delay),
			"last_error":  cause.Error(),
		}).Error
	if err != nil {
		log.Printf("Analysis worker: reschedule job %d failed: %v", job.ID, err)
	}
}
