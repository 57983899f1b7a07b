// file: services/task_service.go
package services

import (
	"ByteList/database"
	"ByteList/models"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 任务生命周期相关的哨兵错误，controller 层用 errors.Is 映射为响应码
var (
	ErrChallengeNotFound = errors.New("挑战不存在或已过期")
	ErrTaskNotFound      = errors.New("任务不存在")
	ErrUnauthorized      = errors.New("无权操作该资源")
	ErrAlreadyClaimed    = errors.New("已认领该挑战")
	ErrAttemptsExhausted = errors.New("尝试次数已耗尽")
	ErrTaskDisabled      = errors.New("任务已永久关闭")
)

// ClaimTask 认领挑战：不存在则快照创建；软隐藏且还有剩余次数则恢复。
//
// (user, challenge) 的唯一索引兜底并发双认领——冲突统一归为 ErrAlreadyClaimed。
func ClaimTask(userID uint32, challengeID uint32) (*models.Task, error) {
	now := time.Now()

	var ch models.Challenge
	err := database.DB.Where("expire_at > ?", now).First(&ch, challengeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	var existing models.Task
	err = database.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&existing).Error
	if err == nil {
		if existing.IsPermanentlyDisabled {
			return nil, ErrAttemptsExhausted
		}
		if !existing.IsRemovedFromTask {
			return nil, ErrAlreadyClaimed
		}
		// 恢复软隐藏的任务。带条件更新：状态在读取后被清扫器/其他请求推进时自然落空
		res := database.DB.Model(&models.Task{}).
			Where("id = ? AND is_removed_from_task = ? AND is_permanently_disabled = ? AND attempts_used < attempts_allowed",
				existing.ID, true, false).
			Update("is_removed_from_task", false)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrAttemptsExhausted
		}
		if err := database.DB.First(&existing, existing.ID).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	task := models.Task{
		ChallengeID:      ch.ID,
		UserID:           userID,
		Title:            ch.Title,
		Description:      ch.Description,
		DurationMinutes:  ch.DurationMinutes,
		Image:            ch.Image,
		Sources:          ch.Sources,
		ExperienceLevels: ch.ExperienceLevels,
		AttemptsAllowed:  ch.AttemptsAllowed,
		Progress:         datatypes.JSON("[]"),
		DurationEndsAt:   now.Add(time.Duration(ch.DurationMinutes) * time.Minute),
		ExpireAt:         ch.ExpireAt,
	}
	if err := database.DB.Create(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}
	return &task, nil
}

// AbandonTask 主动放弃：无条件消耗一次尝试；耗尽则永久关闭，否则软隐藏（可再认领恢复）。
func AbandonTask(userID uint32, taskID uint64) (*models.Task, error) {
	var task models.Task
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if task.UserID != userID {
			return ErrUnauthorized
		}
		if task.IsPermanentlyDisabled || task.IsCompleted {
			return ErrTaskDisabled
		}

		advanced, err := consumeAttempt(tx, task.ID)
		if err != nil {
			return err
		}
		if !advanced {
			// 读取和更新之间被并发操作（清扫/提交）推进到了终态
			return ErrTaskDisabled
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).
			Update("is_removed_from_task", true).Error; err != nil {
			return err
		}
		return tx.First(&task, task.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// consumeAttempt 原子消耗一次尝试并在耗尽时置为永久关闭。
//
// 两条语句都是带状态谓词的条件 UPDATE（不在应用层读改写），
// 行锁在事务内串行化清扫器与用户操作的并发递增，杜绝丢失更新。
// 返回值表示递增是否真的落在了这一行上。
func consumeAttempt(tx *gorm.DB, taskID uint64) (bool, error) {
	res := tx.Model(&models.Task{}).
		Where("id = ? AND is_completed = ? AND is_permanently_disabled = ? AND attempts_used < attempts_allowed",
			taskID, false, false).
		Update("attempts_used", gorm.Expr("attempts_used + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	// 递增后立刻收口：attempts_used == attempts_allowed ⟹ 永久关闭，单向不可逆
	err := tx.Model(&models.Task{}).
		Where("id = ? AND attempts_used >= attempts_allowed", taskID).
		Update("is_permanently_disabled", true).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// AppendProgress 追加一条进度标记。已完成/已关闭的任务不再接受进度。
func AppendProgress(userID uint32, taskID uint64, step string) (*models.Task, error) {
	var task models.Task
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if task.UserID != userID {
			return ErrUnauthorized
		}
		if task.IsPermanentlyDisabled || task.IsCompleted {
			return ErrTaskDisabled
		}

		steps, err := decodeProgress(task.Progress)
		if err != nil {
			return err
		}
		steps = append(steps, step)
		encoded, err := encodeProgress(steps)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).
			Update("progress", encoded).Error; err != nil {
			return err
		}
		return tx.First(&task, task.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func decodeProgress(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var steps []string
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func encodeProgress(steps []string) (datatypes.JSON, error) {
	b, err := json.Marshal(steps)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// GetTask 按所有权读取单个任务
func GetTask(userID uint32, taskID uint64) (*models.Task, error) {
	var task models.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrUnauthorized
	}
	return &task, nil
}

// ListTasks 列出用户的任务；includeRemoved=false 时过滤软隐藏的
func ListTasks(userID uint32, includeRemoved bool) ([]models.Task, error) {
	db := database.DB.Where("user_id = ?", userID)
	if !includeRemoved {
		db = db.Where("is_removed_from_task = ?", false)
	}
	var tasks []models.Task
	if err := db.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
