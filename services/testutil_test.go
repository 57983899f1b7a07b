// file: services/testutil_test.go
package services

import (
	"ByteList/database"
	"ByteList/models"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 用内存 sqlite 替换全局 DB。Redis 保持 nil，缓存路径自动退化。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.Task{},
		&models.RepoPost{},
		&models.RepoVote{},
		&models.RepoContext{},
		&models.AnalysisJob{},
	))

	prevDB := database.DB
	prevRDB := database.RDB
	database.DB = db
	database.RDB = nil
	t.Cleanup(func() {
		database.DB = prevDB
		database.RDB = prevRDB
	})
	return db
}

func createTestChallenge(t *testing.T, attemptsAllowed uint, durationMinutes uint) models.Challenge {
	t.Helper()
	ch := models.Challenge{
		CreatorID:       1,
		Title:           "构建一个 REST API",
		Description:     "用任意语言实现一个带鉴权的 REST API",
		DurationMinutes: durationMinutes,
		AttemptsAllowed: attemptsAllowed,
		ExpireAt:        time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, database.DB.Create(&ch).Error)
	return ch
}

func createTestPost(t *testing.T, userID uint32, githubURL string) models.RepoPost {
	t.Helper()
	post := models.RepoPost{
		UserID:    userID,
		GithubURL: githubURL,
		Title:     "demo project",
		ShareSlug: githubURL, // 测试里用 URL 占位保证唯一
	}
	require.NoError(t, database.DB.Create(&post).Error)
	return post
}

func reloadTask(t *testing.T, id uint64) models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, database.DB.First(&task, id).Error)
	return task
}
