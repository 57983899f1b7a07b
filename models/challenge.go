// file: models/challenge.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Challenge 是管理员发布的限时挑战模板，用户认领后生成个人 Task。
// 模板本身不可变：认领时所有字段快照到 Task，之后修改模板不影响已认领任务。
type Challenge struct {
	ID               uint32         `gorm:"primarykey" json:"id"`
	CreatorID        uint32         `gorm:"not null" json:"creator_id"`
	Title            string         `gorm:"size:100;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	DurationMinutes  uint           `gorm:"not null" json:"duration_minutes"`
	Image            string         `gorm:"size:255" json:"image,omitempty"`
	AttemptsAllowed  uint           `gorm:"not null;default:3" json:"attempts_allowed"`
	Sources          datatypes.JSON `json:"sources,omitempty"`           // 参考链接列表
	ExperienceLevels datatypes.JSON `json:"experience_levels,omitempty"` // 适合的经验等级列表
	ExpireAt         time.Time      `gorm:"not null;index" json:"expire_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (Challenge) TableName() string {
	return "bytelist_challenge"
}

// DefaultChallengeTTL 未指定 expire_at 时挑战的默认存活时间
const DefaultChallengeTTL = 24 * time.Hour
