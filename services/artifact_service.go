// file: services/artifact_service.go
package services

import (
	"ByteList/database"
	"ByteList/models"
	"ByteList/utils"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrArtifactNotFound    = errors.New("作品不存在")
	ErrDuplicateSubmission = errors.New("同一仓库不能重复提交")
	ErrAlreadyAnalyzed     = errors.New("该作品已完成分析")
	ErrAnalysisInFlight    = errors.New("该作品已有待处理的分析任务")
	ErrInvalidVote         = errors.New("无效的投票值")
)

// SubmitInput 提交作品所需的全部字段（githubUrl 已在 DTO 层校验过格式）
type SubmitInput struct {
	Title       string
	Description string
	Tags        datatypes.JSON
	GithubURL   string
	LiveURL     string
	Image       string
	TaskID      *uint64
}

// SubmitArtifact 创建作品并（可选）完成关联任务，同事务写入分析 outbox。
//
// 关联任务时，完成标记、永久关闭、completion_post 三者在一条 UPDATE 里落库，
// 外部永远观察不到"半完成"的任务。分析任务行与提交同事务提交（outbox），
// 后台 worker 的成败不会回滚提交本身。
func SubmitArtifact(userID uint32, in SubmitInput) (*models.RepoPost, error) {
	post := models.RepoPost{
		UserID:      userID,
		GithubURL:   in.GithubURL,
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		LiveURL:     in.LiveURL,
		Image:       in.Image,
		ShareSlug:   utils.GenerateShareSlug(),
		TaskID:      in.TaskID,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 任务前置校验放在创建作品之前：挂在已关闭任务上的提交不应留下任何记录
		if in.TaskID != nil {
			var task models.Task
			if err := tx.First(&task, *in.TaskID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTaskNotFound
				}
				return err
			}
			if task.UserID != userID {
				return ErrUnauthorized
			}
			if task.IsPermanentlyDisabled {
				return ErrTaskDisabled
			}
		}

		if err := tx.Create(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSubmission
			}
			return err
		}

		if in.TaskID != nil {
			// 完成是终态单向转换：一条语句同时置三个字段，谓词兜底并发关闭
			res := tx.Model(&models.Task{}).
				Where("id = ? AND user_id = ? AND is_permanently_disabled = ?", *in.TaskID, userID, false).
				Updates(map[string]interface{}{
					"is_completed":            true,
					"is_permanently_disabled": true,
					"completion_post_id":      post.ID,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrTaskDisabled
			}
		}

		job := models.AnalysisJob{
			RepoPostID: post.ID,
			Status:     models.AnalysisJobPending,
			NextRunAt:  time.Now(),
		}
		return tx.Create(&job).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// EnqueueAnalysis 手动触发（重新）分析。force=false 时已有结果直接拒绝，
// 已有待处理任务也拒绝，避免队列里堆积重复工作。
func EnqueueAnalysis(postID uint64, force bool) (*models.AnalysisJob, error) {
	var post models.RepoPost
	if err := database.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}

	if !force {
		var cnt int64
		if err := database.DB.Model(&models.RepoContext{}).
			Where("repo_post_id = ?", postID).Count(&cnt).Error; err != nil {
			return nil, err
		}
		if cnt > 0 {
			return nil, ErrAlreadyAnalyzed
		}
	}

	var pending int64
	err := database.DB.Model(&models.AnalysisJob{}).
		Where("repo_post_id = ? AND status IN ?", postID,
			[]models.AnalysisJobStatus{models.AnalysisJobPending, models.AnalysisJobRunning}).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrAnalysisInFlight
	}

	job := models.AnalysisJob{
		RepoPostID: postID,
		Force:      force,
		Status:     models.AnalysisJobPending,
		NextRunAt:  time.Now(),
	}
	if err := database.DB.Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// VoteOnPost 投票。like/dislike 互斥：upsert 覆盖同一用户的旧票；"none" 撤票。
func VoteOnPost(userID uint32, postID uint64, value string) error {
	var post models.RepoPost
	if err := database.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtifactNotFound
		}
		return err
	}

	switch models.VoteValue(value) {
	case models.VoteLike, models.VoteDislike:
		vote := models.RepoVote{PostID: postID, UserID: userID, Value: models.VoteValue(value)}
		return database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&vote).Error
	case "none":
		return database.DB.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.RepoVote{}).Error
	default:
		return ErrInvalidVote
	}
}

// VoteCounts 统计某作品的赞/踩
func VoteCounts(postID uint64) (likes int64, dislikes int64, err error) {
	err = database.DB.Model(&models.RepoVote{}).
		Where("post_id = ? AND value = ?", postID, models.VoteLike).Count(&likes).Error
	if err != nil {
		return
	}
	err = database.DB.Model(&models.RepoVote{}).
		Where("post_id = ? AND value = ?", postID, models.VoteDislike).Count(&dislikes).Error
	return
}
