// file: services/analysis_service_test.go
package services

import (
	"ByteList/database"
	"ByteList/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	src *RepoSource
	err error
}

func (f *fakeFetcher) Fetch(ctx context.Context, githubURL string) (*RepoSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.src != nil {
		return f.src, nil
	}
	return &RepoSource{Owner: "someone", Repo: "demo", DefaultBranch: "main"}, nil
}

type fakeScorer struct {
	result *ScoreResult
	err    error
	calls  int
}

func (s *fakeScorer) Provider() string { return "fake" }

func (s *fakeScorer) Score(ctx context.Context, src *RepoSource) (*ScoreResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func goodResult(score float64) *ScoreResult {
	return &ScoreResult{
		Summary: "结构清晰的小项目",
		Metrics: map[string]float64{
			"code_quality":      score,
			"readability":       score,
			"project_structure": score,
			"documentation":     score,
			"best_practices":    score,
		},
		Strengths:       []string{"模块划分合理"},
		Suggestions:     []string{"补充集成测试"},
		Improvements:    []string{"错误处理可以更细"},
		ExperienceLevel: "intermediate",
	}
}

func newTestAnalyzer(scorer Scorer) *Analyzer {
	return NewAnalyzer(&fakeFetcher{}, scorer, time.Minute)
}

func TestAnalyze_StoresResult(t *testing.T) {
	setupTestDB(t)
	post := createTestPost(t, 42, "https://github.com/someone/demo")

	a := newTestAnalyzer(&fakeScorer{result: goodResult(80)})
	require.NoError(t, a.Analyze(context.Background(), post.ID, false))

	var rc models.RepoContext
	require.NoError(t, database.DB.Where("repo_post_id = ?", post.ID).First(&rc).Error)
	assert.Equal(t, uint(80), rc.OverallScore)
	assert.Equal(t, "结构清晰的小项目", rc.AISummary)
	assert.Equal(t, "fake", rc.Provider)
	assert.Equal(t, uint(0), rc.BeatingPercentage, "单个结果的百分位为 0")
}

func TestAnalyze_IdempotentWithoutForce(t *testing.T) {
	setupTestDB(t)
	post := createTestPost(t, 42, "https://github.com/someone/demo")

	scorer := &fakeScorer{result: goodResult(80)}
	a := newTestAnalyzer(scorer)
	require.NoError(t, a.Analyze(context.Background(), post.ID, false))

	err := a.Analyze(context.Background(), post.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyAnalyzed)
	assert.Equal(t, 1, scorer.calls, "重复分析不应再调评分引擎")

	// 存量结果保持不变
	var rc models.RepoContext
	require.NoError(t, database.DB.Where("repo_post_id = ?", post.ID).First(&rc).Error)
	assert.Equal(t, uint(80), rc.OverallScore)
}

func TestAnalyze_ForceOverwritesInPlace(t *testing.T) {
	setupTestDB(t)
	post := createTestPost(t, 42, "https://github.com/someone/demo")

	a := newTestAnalyzer(&fakeScorer{result: goodResult(60)})
	require.NoError(t, a.Analyze(context.Background(), post.ID, false))

	a.Scorer = &fakeScorer{result: goodResult(90)}
	require.NoError(t, a.Analyze(context.Background(), post.ID, true))

	// 覆盖而非追加
	var count int64
	require.NoError(t, database.DB.Model(&models.RepoContext{}).
		Where("repo_post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var rc models.RepoContext
	require.NoError(t, database.DB.Where("repo_post_id = ?", post.ID).First(&rc).Error)
	assert.Equal(t, uint(90), rc.OverallScore)
}

func TestAnalyze_MalformedResultNotPersisted(t *testing.T) {
	setupTestDB(t)
	post := createTestPost(t, 42, "https://github.com/someone/demo")

	bad := goodResult(80)
	delete(bad.Metrics, "documentation")
	a := newTestAnalyzer(&fakeScorer{result: bad})

	err := a.Analyze(context.Background(), post.ID, false)
	assert.ErrorIs(t, err, ErrMalformedScoringResult)

	// 坏数据不落库：没有记录 == 尚未分析
	var count int64
	require.NoError(t, database.DB.Model(&models.RepoContext{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAnalyze_FetchFailure(t *testing.T) {
	setupTestDB(t)
	post := createTestPost(t, 42, "https://github.com/someone/demo")

	a := NewAnalyzer(&fakeFetcher{err: context.DeadlineExceeded}, &fakeScorer{result: goodResult(80)}, time.Minute)
	err := a.Analyze(context.Background(), post.ID, false)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestBeatingPercentage(t *testing.T) {
	setupTestDB(t)

	scores := []float64{40, 70, 90}
	posts := make([]models.RepoPost, 0, len(scores))
	for i, s := range scores {
		post := createTestPost(t, uint32(i+1), "https://github.com/user/repo"+string(rune('a'+i)))
		posts = append(posts, post)
		a := newTestAnalyzer(&fakeScorer{result: goodResult(s)})
		require.NoError(t, a.Analyze(context.Background(), post.ID, false))
	}

	expect := map[uint64]uint{
		posts[0].ID: 0,  // 40 分：没有人比它低
		posts[1].ID: 33, // 70 分：round(100*1/3)
		posts[2].ID: 67, // 90 分：round(100*2/3)
	}
	for postID, want := range expect {
		var rc models.RepoContext
		require.NoError(t, database.DB.Where("repo_post_id = ?", postID).First(&rc).Error)
		assert.Equal(t, want, rc.BeatingPercentage, "post %d", postID)
	}
}

func TestOverallScore_Deterministic(t *testing.T) {
	metrics := map[string]float64{
		"code_quality":      70,
		"readability":       80,
		"project_structure": 90,
		"documentation":     60,
		"best_practices":    75,
	}
	assert.Equal(t, uint(75), OverallScore(metrics))
	// 同一输入永远同一输出
	assert.Equal(t, OverallScore(metrics), OverallScore(metrics))
}

func TestGetAnalysis_MissingMeansUnscored(t *testing.T) {
	setupTestDB(t)
	post := createTestPost(t, 42, "https://github.com/someone/demo")

	_, err := GetAnalysis(post.ID)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}
