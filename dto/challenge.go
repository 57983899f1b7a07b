// file: dto/challenge.go
package dto

import (
	"strings"
	"time"
)

// ========== 请求 DTO ==========

type CreateChallengeReq struct {
	// 规范字段（snake_case）
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	DurationMinutes  uint     `json:"duration_minutes"`
	Image            string   `json:"image"`
	AttemptsAllowed  uint     `json:"attempts_allowed"`
	Sources          []string `json:"sources"`
	ExperienceLevels []string `json:"experience_levels"`
	ExpireAt         string   `json:"expire_at"` // RFC3339，缺省为创建时刻 +24h

	// 仅用于兼容旧客户端（camelCase 别名），所有别名都与上面 tag 不重复
	DurationMinutesCamel  uint     `json:"durationMinutes"`
	AttemptsAllowedCamel  uint     `json:"attemptsAllowed"`
	ExperienceLevelsCamel []string `json:"experienceLevels"`
	ExpireAtCamel         string   `json:"expireAt"`
}

// Normalize: 将 camelCase 别名归一化到 snake_case，并做轻量默认值处理
func (r *CreateChallengeReq) Normalize() {
	if r.DurationMinutes == 0 && r.DurationMinutesCamel != 0 {
		r.DurationMinutes = r.DurationMinutesCamel
	}
	if r.AttemptsAllowed == 0 && r.AttemptsAllowedCamel != 0 {
		r.AttemptsAllowed = r.AttemptsAllowedCamel
	}
	if len(r.ExperienceLevels) == 0 && len(r.ExperienceLevelsCamel) != 0 {
		r.ExperienceLevels = r.ExperienceLevelsCamel
	}
	if r.ExpireAt == "" && r.ExpireAtCamel != "" {
		r.ExpireAt = r.ExpireAtCamel
	}

	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.ExpireAt = strings.TrimSpace(r.ExpireAt)

	if r.AttemptsAllowed == 0 {
		r.AttemptsAllowed = 3
	}
}

// ParseExpireAt 解析过期时间；为空返回零值，由调用方套默认 TTL
func (r *CreateChallengeReq) ParseExpireAt() (time.Time, error) {
	if r.ExpireAt == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, r.ExpireAt)
}

// ========== 响应 DTO ==========

type ChallengeItemResp struct {
	ID              uint32 `json:"id"`
	Title           string `json:"title"`
	DurationMinutes uint   `json:"duration_minutes"`
	Image           string `json:"image,omitempty"`
	AttemptsAllowed uint   `json:"attempts_allowed"`
	ExpireAt        string `json:"expire_at"`
}

type ChallengeDetailResp struct {
	ID               uint32   `json:"id"`
	CreatorID        uint32   `json:"creator_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	DurationMinutes  uint     `json:"duration_minutes"`
	Image            string   `json:"image,omitempty"`
	AttemptsAllowed  uint     `json:"attempts_allowed"`
	Sources          []string `json:"sources,omitempty"`
	ExperienceLevels []string `json:"experience_levels,omitempty"`
	ExpireAt         string   `json:"expire_at"`
	CreatedAt        string   `json:"created_at"`
}
