// file: main.go
package main

import (
	"ByteList/config"
	"ByteList/database"
	"ByteList/routes"
	"ByteList/services"
	"context"
	"log"
)

func main() {
	cfg := config.Load()

	database.Connect()
	database.MigrateTables()
	database.InitRedis()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 后台清扫器：推进超时任务 + TTL 清理
	sweeper := services.NewSweeper(cfg.SweepInterval)
	sweeper.Start(ctx)

	// 分析流水线：GitHub 抓取 + Claude 评分，outbox worker 消费
	fetcher := services.NewGitHubFetcher(cfg.GithubToken, cfg.FetchMaxFiles, cfg.FetchMaxBytes)
	scorer := services.NewClaudeScorer(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	analyzer := services.NewAnalyzer(fetcher, scorer, cfg.AnalysisTimeout)
	worker := services.NewAnalysisWorker(analyzer, cfg.WorkerInterval, cfg.AnalysisMaxAttempts, cfg.AnalysisRetryBase)
	worker.Start(ctx)

	r := routes.SetupRouter()

	log.Println("Starting server on " + cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
