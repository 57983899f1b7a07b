// file: models/analysis_job.go
package models

import "time"

type AnalysisJobStatus string

const (
	AnalysisJobPending AnalysisJobStatus = "pending"
	AnalysisJobRunning AnalysisJobStatus = "running"
	AnalysisJobDone    AnalysisJobStatus = "done"
	AnalysisJobFailed  AnalysisJobStatus = "failed" // 重试耗尽，作品永久保持未评分
)

// AnalysisJob 是分析任务的事务性 outbox 行：与提交写入同一事务落库，
// 由后台 worker 轮询消费，失败按 next_run_at 退避重试。
// 任务状态的成败不影响 RepoPost 本身——提交在入队那一刻就已经成功。
type AnalysisJob struct {
	ID         uint64            `gorm:"primarykey" json:"id"`
	RepoPostID uint64            `gorm:"not null;index" json:"repo_post_id"`
	Force      bool              `gorm:"not null;default:false" json:"force"`
	Status     AnalysisJobStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Attempts   uint              `gorm:"not null;default:0" json:"attempts"`
	NextRunAt  time.Time         `gorm:"not null;index" json:"next_run_at"`
	LastError  string            `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (AnalysisJob) TableName() string {
	return "bytelist_analysis_job"
}
