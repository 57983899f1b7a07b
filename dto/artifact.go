// file: dto/artifact.go
package dto

import "strings"

// ========== 请求 DTO ==========

type CreateArtifactReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	GithubURL   string   `json:"github_url"`
	LiveURL     string   `json:"live_url"`
	Image       string   `json:"image"`
	TaskID      *uint64  `json:"task_id"`

	// 兼容旧客户端（camelCase 别名）
	GithubURLCamel string  `json:"githubUrl"`
	LiveURLCamel   string  `json:"liveUrl"`
	TaskIDCamel    *uint64 `json:"taskId"`
}

func (r *CreateArtifactReq) Normalize() {
	if r.GithubURL == "" && r.GithubURLCamel != "" {
		r.GithubURL = r.GithubURLCamel
	}
	if r.LiveURL == "" && r.LiveURLCamel != "" {
		r.LiveURL = r.LiveURLCamel
	}
	if r.TaskID == nil && r.TaskIDCamel != nil {
		r.TaskID = r.TaskIDCamel
	}

	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.GithubURL = strings.TrimSpace(r.GithubURL)
	r.LiveURL = strings.TrimSpace(r.LiveURL)
}

type VoteReq struct {
	Value string `json:"value"` // like / dislike / none
}

type AnalyzeReq struct {
	Force bool `json:"force"`
}

// ========== 响应 DTO ==========

type ArtifactItemResp struct {
	ID        uint64   `json:"id"`
	UserID    uint32   `json:"user_id"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags,omitempty"`
	GithubURL string   `json:"github_url"`
	LiveURL   string   `json:"live_url,omitempty"`
	Image     string   `json:"image,omitempty"`
	ShareSlug string   `json:"share_slug"`
	TaskID    *uint64  `json:"task_id,omitempty"`
	Likes     int64    `json:"likes"`
	Dislikes  int64    `json:"dislikes"`
	CreatedAt string   `json:"created_at"`
}

type ArtifactDetailResp struct {
	ArtifactItemResp
	Description string `json:"description"`
}

type AnalysisResp struct {
	RepoPostID        uint64             `json:"repo_post_id"`
	AISummary         string             `json:"ai_summary"`
	Metrics           map[string]float64 `json:"metrics"`
	Strengths         []string           `json:"strengths,omitempty"`
	Suggestions       []string           `json:"suggestions,omitempty"`
	Improvements      []string           `json:"improvements,omitempty"`
	ExperienceLevel   string             `json:"experience_level,omitempty"`
	OverallScore      uint               `json:"overall_score"`
	BeatingPercentage uint               `json:"beating_percentage"`
	Provider          string             `json:"provider,omitempty"`
	UpdatedAt         string             `json:"updated_at"`
}
