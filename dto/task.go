// file: dto/task.go
package dto

type ProgressReq struct {
	Step string `json:"step"`
}

type TaskItemResp struct {
	ID                    uint64 `json:"id"`
	ChallengeID           uint32 `json:"challenge_id"`
	Title                 string `json:"title"`
	DurationMinutes       uint   `json:"duration_minutes"`
	AttemptsAllowed       uint   `json:"attempts_allowed"`
	AttemptsUsed          uint   `json:"attempts_used"`
	IsCompleted           bool   `json:"is_completed"`
	IsPermanentlyDisabled bool   `json:"is_permanently_disabled"`
	IsRemovedFromTask     bool   `json:"is_removed_from_task"`
	DurationEndsAt        string `json:"duration_ends_at"`
	ExpireAt              string `json:"expire_at"`
}

type TaskDetailResp struct {
	ID                    uint64   `json:"id"`
	ChallengeID           uint32   `json:"challenge_id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	DurationMinutes       uint     `json:"duration_minutes"`
	Image                 string   `json:"image,omitempty"`
	Sources               []string `json:"sources,omitempty"`
	ExperienceLevels      []string `json:"experience_levels,omitempty"`
	AttemptsAllowed       uint     `json:"attempts_allowed"`
	AttemptsUsed          uint     `json:"attempts_used"`
	IsCompleted           bool     `json:"is_completed"`
	IsPermanentlyDisabled bool     `json:"is_permanently_disabled"`
	IsRemovedFromTask     bool     `json:"is_removed_from_task"`
	CompletionPostID      *uint64  `json:"completion_post_id,omitempty"`
	Progress              []string `json:"progress"`
	DurationEndsAt        string   `json:"duration_ends_at"`
	ExpireAt              string   `json:"expire_at"`
	CreatedAt             string   `json:"created_at"`
}
