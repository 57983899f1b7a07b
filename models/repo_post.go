// file: models/repo_post.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// RepoPost 是用户提交的作品（GitHub 仓库 + 元数据），可选关联一个 Task 作为完成凭证。
type RepoPost struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	UserID      uint32         `gorm:"not null;uniqueIndex:idx_post_user_repo" json:"user_id"`
	GithubURL   string         `gorm:"size:255;not null;uniqueIndex:idx_post_user_repo" json:"github_url"`
	Title       string         `gorm:"size:150;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Tags        datatypes.JSON `json:"tags,omitempty"`
	LiveURL     string         `gorm:"size:255" json:"live_url,omitempty"`
	Image       string         `gorm:"size:255" json:"image,omitempty"`
	ShareSlug   string         `gorm:"size:40;unique;not null" json:"share_slug"`
	TaskID      *uint64        `gorm:"index" json:"task_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (RepoPost) TableName() string {
	return "bytelist_repo_post"
}

type VoteValue string

const (
	VoteLike    VoteValue = "like"
	VoteDislike VoteValue = "dislike"
)

// RepoVote 点赞/点踩记录。(post, user) 唯一：
// 同一用户对同一作品最多一票，点赞会覆盖之前的点踩，反之亦然。
type RepoVote struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	PostID    uint64    `gorm:"not null;uniqueIndex:idx_vote_post_user" json:"post_id"`
	UserID    uint32    `gorm:"not null;uniqueIndex:idx_vote_post_user" json:"user_id"`
	Value     VoteValue `gorm:"size:10;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RepoVote) TableName() string {
	return "bytelist_repo_vote"
}
