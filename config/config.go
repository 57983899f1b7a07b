// file: config/config.go
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 汇总所有运行时配置，来源为环境变量（BYTELIST_ 前缀）加默认值。
type Config struct {
	ListenAddr string

	MySQLDSN      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	AnthropicAPIKey string
	AnthropicModel  string
	GithubToken     string

	SweepInterval  time.Duration
	WorkerInterval time.Duration

	AnalysisMaxAttempts uint
	AnalysisRetryBase   time.Duration
	AnalysisTimeout     time.Duration

	FetchMaxFiles int
	FetchMaxBytes int64
}

// C 是全局配置实例，main 启动时由 Load 填充。
var C = defaults()

func defaults() *Config {
	return &Config{
		ListenAddr:          ":8080",
		MySQLDSN:            "root:123456@tcp(localhost:3306)/bytelist?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:           "localhost:6379",
		JWTSecret:           "bytelist-dev-secret-change-me",
		AnthropicModel:      "claude-3-5-haiku-20241022",
		SweepInterval:       time.Minute,
		WorkerInterval:      5 * time.Second,
		AnalysisMaxAttempts: 5,
		AnalysisRetryBase:   30 * time.Second,
		AnalysisTimeout:     2 * time.Minute,
		FetchMaxFiles:       12,
		FetchMaxBytes:       200 * 1024,
	}
}

// Load 从环境变量读取配置。未设置的键保留默认值。
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("BYTELIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := defaults()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("mysql_dsn", d.MySQLDSN)
	v.SetDefault("redis_addr", d.RedisAddr)
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("jwt_secret", d.JWTSecret)
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_model", d.AnthropicModel)
	v.SetDefault("github_token", "")
	v.SetDefault("sweep_interval", d.SweepInterval)
	v.SetDefault("worker_interval", d.WorkerInterval)
	v.SetDefault("analysis_max_attempts", d.AnalysisMaxAttempts)
	v.SetDefault("analysis_retry_base", d.AnalysisRetryBase)
	v.SetDefault("analysis_timeout", d.AnalysisTimeout)
	v.SetDefault("fetch_max_files", d.FetchMaxFiles)
	v.SetDefault("fetch_max_bytes", d.FetchMaxBytes)

	C = &Config{
		ListenAddr:          v.GetString("listen_addr"),
		MySQLDSN:            v.GetString("mysql_dsn"),
		RedisAddr:           v.GetString("redis_addr"),
		RedisPassword:       v.GetString("redis_password"),
		RedisDB:             v.GetInt("redis_db"),
		JWTSecret:           v.GetString("jwt_secret"),
		AnthropicAPIKey:     v.GetString("anthropic_api_key"),
		AnthropicModel:      v.GetString("anthropic_model"),
		GithubToken:         v.GetString("github_token"),
		SweepInterval:       v.GetDuration("sweep_interval"),
		WorkerInterval:      v.GetDuration("worker_interval"),
		AnalysisMaxAttempts: v.GetUint("analysis_max_attempts"),
		AnalysisRetryBase:   v.GetDuration("analysis_retry_base"),
		AnalysisTimeout:     v.GetDuration("analysis_timeout"),
		FetchMaxFiles:       v.GetInt("fetch_max_files"),
		FetchMaxBytes:       v.GetInt64("fetch_max_bytes"),
	}
	return C
}
