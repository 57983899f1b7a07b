// file: services/analysis_service.go
package services

import (
	"ByteList/database"
	"ByteList/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUpstreamUnavailable    = errors.New("上游服务不可用")
	ErrMalformedScoringResult = errors.New("评分结果格式无效")
)

// RequiredMetrics 是评分引擎必须返回的固定指标集，总分是它们的简单平均。
// 固定集合保证不同作品之间的 overall_score / 百分位可比。
var RequiredMetrics = []string{
	"code_quality",
	"readability",
	"project_structure",
	"documentation",
	"best_practices",
}

// SourceFile 单个抓取到的源文件
type SourceFile struct {
	Path    string
	Content string
}

// RepoSource 仓库抓取结果。Truncated 表示受文件数/字节数上限截断，属正常情况
type RepoSource struct {
	Owner         string
	Repo          string
	DefaultBranch string
	Files         []SourceFile
	Truncated     bool
}

// SourceFetcher 抓取仓库源码（有上限、可部分成功）
type SourceFetcher interface {
	Fetch(ctx context.Context, githubURL string) (*RepoSource, error)
}

// ScoreResult 评分引擎的结构化输出
type ScoreResult struct {
	Summary         string
	Metrics         map[string]float64
	Strengths       []string
	Suggestions     []string
	Improvements    []string
	ExperienceLevel string
}

// Scorer 对仓库源码给出结构化评分。输出不可信，调用方自行校验
type Scorer interface {
	Score(ctx context.Context, src *RepoSource) (*ScoreResult, error)
	Provider() string
}

// Analyzer 把一次提交串成完整分析流水线：抓源码 → 评分 → 落结果 → 重算百分位。
type Analyzer struct {
	Fetcher SourceFetcher
	Scorer  Scorer
	Timeout time.Duration // 整条流水线的硬超时，外部调用绝不无限阻塞
}

func NewAnalyzer(fetcher SourceFetcher, scorer Scorer, timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Analyzer{Fetcher: fetcher, Scorer: scorer, Timeout: timeout}
}

// Analyze 对单个作品执行一次分析。除 force 重跑外按作品幂等：
// 已有结果直接报 ErrAlreadyAnalyzed，不碰已存储的数据。
func (a *Analyzer) Analyze(ctx context.Context, postID uint64, force bool) error {
	var post models.RepoPost
	if err := database.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtifactNotFound
		}
		return err
	}

	if !force {
		var cnt int64
		if err := database.DB.Model(&models.RepoContext{}).
			Where("repo_post_id = ?", postID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrAlreadyAnalyzed
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	src, err := a.Fetcher.Fetch(ctx, post.GithubURL)
	if err != nil {
		return fmt.Errorf("%w: 源码抓取失败: %v", ErrUpstreamUnavailable, err)
	}

	result, err := a.Scorer.Score(ctx, src)
	if err != nil {
		return err
	}
	if err := validateScoreResult(result); err != nil {
		return err
	}

	rc, err := buildRepoContext(postID, result, a.Scorer.Provider())
	if err != nil {
		return err
	}

	// repo_post_id 唯一索引 + OnConflict：同作品的结果原地覆盖而非追加
	err = database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "repo_post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ai_summary", "metrics", "strengths", "suggestions", "improvements",
			"experience_level", "overall_score", "provider", "updated_at",
		}),
	}).Create(rc).Error
	if err != nil {
		return err
	}

	if err := RecomputePercentiles(database.DB); err != nil {
		return err
	}
	invalidateAnalysisCache()
	return nil
}

// validateScoreResult 防御式校验评分引擎输出：缺指标、越界都按格式错误处理，
// 触发上层重试而不是把坏数据写进库
func validateScoreResult(r *ScoreResult) error {
	if r == nil || r.Summary == "" {
		return ErrMalformedScoringResult
	}
	for _, name := range RequiredMetrics {
		v, ok := r.Metrics[name]
		if !ok || v < 0 || v > 100 || math.IsNaN(v) {
			return fmt.Errorf("%w: 指标 %s 缺失或越界", ErrMalformedScoringResult, name)
		}
	}
	return nil
}

// OverallScore 固定指标的简单平均，四舍五入。确定性聚合，保证百分位可比
func OverallScore(metrics map[string]float64) uint {
	var sum float64
	for _, name := range RequiredMetrics {
		sum += metrics[name]
	}
	return uint(math.Round(sum / float64(len(RequiredMetrics))))
}

func buildRepoContext(postID uint64, r *ScoreResult, provider string) (*models.RepoContext, error) {
	metrics := make(map[string]interface{}, len(RequiredMetrics))
	for _, name := range RequiredMetrics {
		metrics[name] = r.Metrics[name]
	}
	strengths, err := json.Marshal(r.Strengths)
	if err != nil {
		return nil, err
	}
	suggestions, err := json.Marshal(r.Suggestions)
	if err != nil {
		return nil, err
	}
	improvements, err := json.Marshal(r.Improvements)
	if err != nil {
		return nil, err
	}
	return &models.RepoContext{
		RepoPostID:      postID,
		AISummary:       r.Summary,
		Metrics:         metrics,
		Strengths:       strengths,
		Suggestions:     suggestions,
		Improvements:    improvements,
		ExperienceLevel: r.ExperienceLevel,
		OverallScore:    OverallScore(r.Metrics),
		Provider:        provider,
	}, nil
}

// RecomputePercentiles 全量重算所有结果的 beating_percentage：
// round(100 * 比自己分低的数量 / 总数)。每次新结果写入后整表重建，
// 与排行榜缓存重建同一套路；规模增长后可换增量的顺序统计结构。
func RecomputePercentiles(db *gorm.DB) error {
	type row struct {
		ID           uint64
		OverallScore uint
	}
	var all []row
	if err := db.Model(&models.RepoContext{}).
		Select("id", "overall_score").Find(&all).Error; err != nil {
		return err
	}
	total := len(all)
	if total == 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, r := range all {
			below := 0
			for _, other := range all {
				if other.OverallScore < r.OverallScore {
					below++
				}
			}
			pct := uint(math.Round(100 * float64(below) / float64(total)))
			if err := tx.Model(&models.RepoContext{}).
				Where("id = ?", r.ID).
				Update("beating_percentage", pct).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAnalysis 读取分析结果，Redis 读穿透缓存（5 分钟），未评分返回 ErrArtifactNotFound 区分
func GetAnalysis(postID uint64) (*models.RepoContext, error) {
	key := fmt.Sprintf("analysis:%d", postID)
	if database.RDB != nil {
		if cached, err := database.RDB.Get(database.Ctx, key).Result(); err == nil {
			var rc models.RepoContext
			if json.Unmarshal([]byte(cached), &rc) == nil {
				return &rc, nil
			}
		}
	}

	var rc models.RepoContext
	if err := database.DB.Where("repo_post_id = ?", postID).First(&rc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}

	if database.RDB != nil {
		if b, err := json.Marshal(&rc); err == nil {
			database.RDB.Set(database.Ctx, key, b, 5*time.Minute)
		}
	}
	return &rc, nil
}

// invalidateAnalysisCache 百分位全量重算后清掉全部分析缓存，下次查询取最新数据
func invalidateAnalysisCache() {
	if database.RDB == nil {
		return
	}
	keys, err := database.RDB.Keys(database.Ctx, "analysis:*").Result()
	if err == nil && len(keys) > 0 {
		database.RDB.Del(database.Ctx, keys...)
		log.Printf("Cleared %d analysis cache keys from Redis.", len(keys))
	}
}
