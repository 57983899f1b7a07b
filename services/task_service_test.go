// file: services/task_service_test.go
package services

import (
	"ByteList/database"
	"ByteList/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimTask_CreatesSnapshot(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 3, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	assert.Equal(t, ch.ID, task.ChallengeID)
	assert.Equal(t, uint32(42), task.UserID)
	assert.Equal(t, ch.Title, task.Title)
	assert.Equal(t, uint(3), task.AttemptsAllowed)
	assert.Equal(t, uint(0), task.AttemptsUsed)
	assert.False(t, task.IsCompleted)
	assert.False(t, task.IsPermanentlyDisabled)
	assert.WithinDuration(t, ch.ExpireAt, task.ExpireAt, time.Second)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), task.DurationEndsAt, 5*time.Second)
}

func TestClaimTask_ExpiredChallenge(t *testing.T) {
	setupTestDB(t)
	ch := models.Challenge{
		CreatorID:       1,
		Title:           "老挑战",
		DurationMinutes: 30,
		AttemptsAllowed: 3,
		ExpireAt:        time.Now().Add(-time.Minute),
	}
	require.NoError(t, database.DB.Create(&ch).Error)

	_, err := ClaimTask(42, ch.ID)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestClaimTask_DuplicateClaim(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 3, 60)

	_, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	_, err = ClaimTask(42, ch.ID)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	// 不允许出现第二条记录
	var count int64
	require.NoError(t, database.DB.Model(&models.Task{}).
		Where("user_id = ? AND challenge_id = ?", 42, ch.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestClaimTask_RestoresSoftRemoved(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 3, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	_, err = AbandonTask(42, task.ID)
	require.NoError(t, err)

	restored, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, restored.ID, "恢复旧任务而不是新建")
	assert.False(t, restored.IsRemovedFromTask)
	assert.Equal(t, uint(1), restored.AttemptsUsed)
}

func TestClaimTask_DisabledTaskRejected(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 1, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	// 唯一一次尝试被放弃后任务永久关闭
	_, err = AbandonTask(42, task.ID)
	require.NoError(t, err)

	_, err = ClaimTask(42, ch.ID)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
}

func TestAbandonTask_TwoAttempts(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 2, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	first, err := AbandonTask(42, task.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.AttemptsUsed)
	assert.True(t, first.IsRemovedFromTask)
	assert.False(t, first.IsPermanentlyDisabled)

	_, err = ClaimTask(42, ch.ID)
	require.NoError(t, err)

	second, err := AbandonTask(42, task.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.AttemptsUsed)
	assert.True(t, second.IsPermanentlyDisabled)
}

func TestAbandonTask_Ownership(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 3, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	_, err = AbandonTask(7, task.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = AbandonTask(42, 99999)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestAbandonTask_DisabledIsTerminal(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 1, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	_, err = AbandonTask(42, task.ID)
	require.NoError(t, err)

	_, err = AbandonTask(42, task.ID)
	assert.ErrorIs(t, err, ErrTaskDisabled)

	// 永久关闭单向不可逆
	final := reloadTask(t, task.ID)
	assert.True(t, final.IsPermanentlyDisabled)
	assert.LessOrEqual(t, final.AttemptsUsed, final.AttemptsAllowed)
}

func TestAppendProgress(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 3, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	task, err = AppendProgress(42, task.ID, "搭好了项目骨架")
	require.NoError(t, err)
	task, err = AppendProgress(42, task.ID, "写完了鉴权中间件")
	require.NoError(t, err)

	steps, err := decodeProgress(task.Progress)
	require.NoError(t, err)
	assert.Equal(t, []string{"搭好了项目骨架", "写完了鉴权中间件"}, steps)
}

func TestAppendProgress_DisabledRejected(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 1, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)
	_, err = AbandonTask(42, task.ID)
	require.NoError(t, err)

	_, err = AppendProgress(42, task.ID, "来不及了")
	assert.ErrorIs(t, err, ErrTaskDisabled)
}

func TestListTasks_FiltersSoftRemoved(t *testing.T) {
	setupTestDB(t)
	ch1 := createTestChallenge(t, 3, 60)
	ch2 := createTestChallenge(t, 3, 60)

	t1, err := ClaimTask(42, ch1.ID)
	require.NoError(t, err)
	_, err = ClaimTask(42, ch2.ID)
	require.NoError(t, err)

	_, err = AbandonTask(42, t1.ID)
	require.NoError(t, err)

	visible, err := ListTasks(42, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := ListTasks(42, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
