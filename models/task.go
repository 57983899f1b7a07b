// file: models/task.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Task 是用户对某个 Challenge 的个人认领，核心状态机实体。
//
// 字段均为认领时从 Challenge 快照而来，不随模板变化。
// 两条时间线：
//   - DurationEndsAt：本次尝试的工作窗口截止时间，由后台清扫器推进；
//   - ExpireAt：硬性存活上限（与 Challenge.ExpireAt 同步），到点由清扫器直接删除记录。
//
// 状态不变量：
//   - AttemptsUsed 永不超过 AttemptsAllowed；
//   - AttemptsUsed == AttemptsAllowed 的瞬间 IsPermanentlyDisabled 必为 true，且单向不可逆；
//   - IsPermanentlyDisabled=true 后不可恢复、不可提交。
type Task struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	ChallengeID uint32 `gorm:"not null;uniqueIndex:idx_task_user_challenge" json:"challenge_id"`
	UserID      uint32 `gorm:"not null;uniqueIndex:idx_task_user_challenge" json:"user_id"`

	// 以下为 Challenge 字段快照
	Title            string         `gorm:"size:100;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	DurationMinutes  uint           `gorm:"not null" json:"duration_minutes"`
	Image            string         `gorm:"size:255" json:"image,omitempty"`
	Sources          datatypes.JSON `json:"sources,omitempty"`
	ExperienceLevels datatypes.JSON `json:"experience_levels,omitempty"`
	AttemptsAllowed  uint           `gorm:"not null" json:"attempts_allowed"`

	AttemptsUsed          uint           `gorm:"not null;default:0" json:"attempts_used"`
	IsCompleted           bool           `gorm:"not null;default:false" json:"is_completed"`
	IsPermanentlyDisabled bool           `gorm:"not null;default:false" json:"is_permanently_disabled"`
	IsRemovedFromTask     bool           `gorm:"not null;default:false" json:"is_removed_from_task"` // 软隐藏，可恢复
	CompletionPostID      *uint64        `json:"completion_post_id,omitempty"`
	Progress              datatypes.JSON `json:"progress,omitempty"` // 自由格式的进度步骤列表

	DurationEndsAt time.Time `gorm:"not null;index" json:"duration_ends_at"`
	ExpireAt       time.Time `gorm:"not null;index" json:"expire_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Task) TableName() string {
	return "bytelist_task"
}

// WindowEnd 计算从 from 开始的一个完整工作窗口的截止时间
func (t *Task) WindowEnd(from time.Time) time.Time {
	return from.Add(time.Duration(t.DurationMinutes) * time.Minute)
}
