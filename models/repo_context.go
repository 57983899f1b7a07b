// file: models/repo_context.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// RepoContext 是一次 AI 代码评审的结果，每个 RepoPost 至多一条（repo_post_id 唯一，upsert 覆盖）。
//
// 未评分的作品不存在 RepoContext 记录——"没有记录"本身就是"尚未分析"的信号，
// 绝不写入零分占位行。
type RepoContext struct {
	ID              uint64            `gorm:"primarykey" json:"id"`
	RepoPostID      uint64            `gorm:"not null;uniqueIndex" json:"repo_post_id"`
	AISummary       string            `gorm:"type:text" json:"ai_summary"`
	Metrics         datatypes.JSONMap `json:"metrics"` // 固定指标名 -> 0~100 分值
	Strengths       datatypes.JSON    `json:"strengths,omitempty"`
	Suggestions     datatypes.JSON    `json:"suggestions,omitempty"`
	Improvements    datatypes.JSON    `json:"improvements,omitempty"`
	ExperienceLevel string            `gorm:"size:30" json:"experience_level,omitempty"`
	OverallScore    uint              `gorm:"not null" json:"overall_score"`
	// BeatingPercentage 在每次新结果写入后全量重算：round(100 * 比它低的数量 / 总数)
	BeatingPercentage uint      `gorm:"not null;default:0" json:"beating_percentage"`
	Provider          string    `gorm:"size:32" json:"provider,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (RepoContext) TableName() string {
	return "bytelist_repo_context"
}
