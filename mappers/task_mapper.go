// file: mappers/task_mapper.go
package mappers

import (
	"ByteList/dto"
	"ByteList/models"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func MapTaskToItemResp(t models.Task) dto.TaskItemResp {
	return dto.TaskItemResp{
		ID:                    t.ID,
		ChallengeID:           t.ChallengeID,
		Title:                 t.Title,
		DurationMinutes:       t.DurationMinutes,
		AttemptsAllowed:       t.AttemptsAllowed,
		AttemptsUsed:          t.AttemptsUsed,
		IsCompleted:           t.IsCompleted,
		IsPermanentlyDisabled: t.IsPermanentlyDisabled,
		IsRemovedFromTask:     t.IsRemovedFromTask,
		DurationEndsAt:        t.DurationEndsAt.Format(time.RFC3339),
		ExpireAt:              t.ExpireAt.Format(time.RFC3339),
	}
}

func MapTaskToDetailResp(t models.Task) dto.TaskDetailResp {
	progress := decodeStrings(t.Progress)
	if progress == nil {
		progress = []string{}
	}
	return dto.TaskDetailResp{
		ID:                    t.ID,
		ChallengeID:           t.ChallengeID,
		Title:                 t.Title,
		Description:           t.Description,
		DurationMinutes:       t.DurationMinutes,
		Image:                 t.Image,
		Sources:               decodeStrings(t.Sources),
		ExperienceLevels:      decodeStrings(t.ExperienceLevels),
		AttemptsAllowed:       t.AttemptsAllowed,
		AttemptsUsed:          t.AttemptsUsed,
		IsCompleted:           t.IsCompleted,
		IsPermanentlyDisabled: t.IsPermanentlyDisabled,
		IsRemovedFromTask:     t.IsRemovedFromTask,
		CompletionPostID:      t.CompletionPostID,
		Progress:              progress,
		DurationEndsAt:        t.DurationEndsAt.Format(time.RFC3339),
		ExpireAt:              t.ExpireAt.Format(time.RFC3339),
		CreatedAt:             t.CreatedAt.Format(time.RFC3339),
	}
}

func MapChallengeToItemResp(ch models.Challenge) dto.ChallengeItemResp {
	return dto.ChallengeItemResp{
		ID:              ch.ID,
		Title:           ch.Title,
		DurationMinutes: ch.DurationMinutes,
		Image:           ch.Image,
		AttemptsAllowed: ch.AttemptsAllowed,
		ExpireAt:        ch.ExpireAt.Format(time.RFC3339),
	}
}

func MapChallengeToDetailResp(ch models.Challenge) dto.ChallengeDetailResp {
	return dto.ChallengeDetailResp{
		ID:               ch.ID,
		CreatorID:        ch.CreatorID,
		Title:            ch.Title,
		Description:      ch.Description,
		DurationMinutes:  ch.DurationMinutes,
		Image:            ch.Image,
		AttemptsAllowed:  ch.AttemptsAllowed,
		Sources:          decodeStrings(ch.Sources),
		ExperienceLevels: decodeStrings(ch.ExperienceLevels),
		ExpireAt:         ch.ExpireAt.Format(time.RFC3339),
		CreatedAt:        ch.CreatedAt.Format(time.RFC3339),
	}
}
