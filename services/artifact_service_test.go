// file: services/artifact_service_test.go
package services

import (
	"ByteList/database"
	"ByteList/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitArtifact_CompletesTaskAtomically(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 3, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	post, err := SubmitArtifact(42, SubmitInput{
		Title:     "我的提交",
		GithubURL: "https://github.com/someone/demo",
		TaskID:    &task.ID,
	})
	require.NoError(t, err)

	// 完成与永久关闭必须同时可见
	done := reloadTask(t, task.ID)
	assert.True(t, done.IsCompleted)
	assert.True(t, done.IsPermanentlyDisabled)
	require.NotNil(t, done.CompletionPostID)
	assert.Equal(t, post.ID, *done.CompletionPostID)

	// outbox 里应有一条 pending 分析任务
	var job models.AnalysisJob
	require.NoError(t, database.DB.Where("repo_post_id = ?", post.ID).First(&job).Error)
	assert.Equal(t, models.AnalysisJobPending, job.Status)
}

func TestSubmitArtifact_DisabledTaskRejected(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 1, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)
	_, err = AbandonTask(42, task.ID)
	require.NoError(t, err)

	_, err = SubmitArtifact(42, SubmitInput{
		Title:     "迟到的提交",
		GithubURL: "https://github.com/someone/late",
		TaskID:    &task.ID,
	})
	assert.ErrorIs(t, err, ErrTaskDisabled)

	// 不允许留下任何作品记录
	var count int64
	require.NoError(t, database.DB.Model(&models.RepoPost{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSubmitArtifact_DuplicateRepo(t *testing.T) {
	setupTestDB(t)

	_, err := SubmitArtifact(42, SubmitInput{
		Title:     "first",
		GithubURL: "https://github.com/someone/demo",
	})
	require.NoError(t, err)

	_, err = SubmitArtifact(42, SubmitInput{
		Title:     "second",
		GithubURL: "https://github.com/someone/demo",
	})
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	// 不同用户提交同一仓库是允许的
	_, err = SubmitArtifact(7, SubmitInput{
		Title:     "other user",
		GithubURL: "https://github.com/someone/demo",
	})
	assert.NoError(t, err)
}

func TestSubmitArtifact_TaskOwnership(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 3, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	_, err = SubmitArtifact(7, SubmitInput{
		Title:     "蹭别人的任务",
		GithubURL: "https://github.com/other/demo",
		TaskID:    &task.ID,
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubmitArtifact_CompletedTaskCannotReopen(t *testing.T) {
	setupTestDB(t)
	ch := createTestChallenge(t, 3, 60)

	task, err := ClaimTask(42, ch.ID)
	require.NoError(t, err)

	_, err = SubmitArtifact(42, SubmitInput{
		Title:     "第一次提交",
		GithubURL: "https://github.com/someone/first",
		TaskID:    &task.ID,
	})
	require.NoError(t, err)

	// 完成即终态：同一任务不接受第二次提交
	_, err = SubmitArtifact(42, SubmitInput{
		Title:     "第二次提交",
		GithubURL: "https://github.com/someone/second",
		TaskID:    &task.ID,
	})
	assert.ErrorIs(t, err, ErrTaskDisabled)
}

func TestVoteOnPost_Exclusive(t *testing.T) {
	setupTestDB(t)
	post := createTestPost(t, 42, "https://github.com/someone/demo")

	require.NoError(t, VoteOnPost(7, post.ID, "like"))
	likes, dislikes, err := VoteCounts(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)
	assert.Equal(t, int64(0), dislikes)

	// 点踩覆盖之前的赞
	require.NoError(t, VoteOnPost(7, post.ID, "dislike"))
	likes, dislikes, err = VoteCounts(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(1), dislikes)

	// 撤票
	require.NoError(t, VoteOnPost(7, post.ID, "none"))
	likes, dislikes, err = VoteCounts(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(0), dislikes)

	require.ErrorIs(t, VoteOnPost(7, post.ID, "meh"), ErrInvalidVote)
}

func TestEnqueueAnalysis(t *testing.T) {
	setupTestDB(t)
	post := createTestPost(t, 42, "https://github.com/someone/demo")

	job, err := EnqueueAnalysis(post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisJobPending, job.Status)

	// 已有待处理任务时拒绝重复入队
	_, err = EnqueueAnalysis(post.ID, false)
	assert.ErrorIs(t, err, ErrAnalysisInFlight)

	_, err = EnqueueAnalysis(99999, false)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestEnqueueAnalysis_AlreadyAnalyzed(t *testing.T) {
	setupTestDB(t)
	post := createTestPost(t, 42, "https://github.com/someone/demo")

	require.NoError(t, database.DB.Create(&models.RepoContext{
		RepoPostID:   post.ID,
		AISummary:    "一份不错的项目",
		OverallScore: 80,
	}).Error)

	_, err := EnqueueAnalysis(post.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyAnalyzed)

	// force 重跑放行
	job, err := EnqueueAnalysis(post.ID, true)
	require.NoError(t, err)
	assert.True(t, job.Force)
}
