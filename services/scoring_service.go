// file: services/scoring_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeScorer 调用 Anthropic API 做代码评审。
// 模型输出按不可信处理：只接受能严格解析成固定 schema 的 JSON，
// 解析失败报 ErrMalformedScoringResult 交给上层重试。
type ClaudeScorer struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewClaudeScorer(apiKey string, model string) *ClaudeScorer {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	m := anthropic.Model(model)
	if m == "" {
		m = anthropic.ModelClaude3_5Haiku20241022
	}
	return &ClaudeScorer{
		client:    anthropic.NewClient(opts...),
		model:     m,
		maxTokens: 2048,
	}
}

func (s *ClaudeScorer) Provider() string {
	return "anthropic"
}

// Score 发起一次评审请求并解析结构化结果。
func (s *ClaudeScorer) Score(ctx context.Context, src *RepoSource) (*ScoreResult, error) {
	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: reviewSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildReviewPrompt(src))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: 评分请求失败: %v", ErrUpstreamUnavailable, err)
	}

	var text string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += variant.Text
		}
	}
	return parseScoreResult(text)
}

const reviewSystemPrompt = `You are a strict code reviewer for a developer community. ` +
	`You always answer with a single JSON object and nothing else: no prose, no markdown fences.`

func buildReviewPrompt(src *RepoSource) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Review the GitHub repository %s/%s (branch %s).\n", src.Owner, src.Repo, src.DefaultBranch)
	if src.Truncated {
		sb.WriteString("Only a sample of the files is included below.\n")
	}
	sb.WriteString(`Respond with JSON of this exact shape:
{
  "summary": "...",
  "metrics": {"code_quality": 0-100, "readability": 0-100, "project_structure": 0-100, "documentation": 0-100, "best_practices": 0-100},
  "strengths": ["..."],
  "suggestions": ["..."],
  "improvements": ["..."],
  "experience_level": "beginner|intermediate|advanced"
}
`)
	for _, f := range src.Files {
		fmt.Fprintf(&sb, "\n--- %s ---\n%s\n", f.Path, f.Content)
	}
	return sb.String()
}

// parseScoreResult 解析模型输出。容忍围栏代码块和前后缀噪音，
// 但 JSON 本体必须完整且指标齐全。
func parseScoreResult(text string) (*ScoreResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: 输出中不含 JSON 对象", ErrMalformedScoringResult)
	}

	var wire struct {
		Summary         string             `json:"summary"`
		Metrics         map[string]float64 `json:"metrics"`
		Strengths       []string           `json:"strengths"`
		Suggestions     []string           `json:"suggestions"`
		Improvements    []string           `json:"improvements"`
		ExperienceLevel string             `json:"experience_level"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScoringResult, err)
	}

	result := &ScoreResult{
		Summary:         strings.TrimSpace(wire.Summary),
		Metrics:         wire.Metrics,
		Strengths:       wire.Strengths,
		Suggestions:     wire.Suggestions,
		Improvements:    wire.Improvements,
		ExperienceLevel: wire.ExperienceLevel,
	}
	if err := validateScoreResult(result); err != nil {
		return nil, err
	}
	return result, nil
}
