// file: database/connect.go
package database

import (
	"ByteList/config"
	"ByteList/models"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	var err error
	// TranslateError 让唯一索引冲突以 gorm.ErrDuplicatedKey 暴露，
	// 认领/提交的并发判重依赖它。
	DB, err = gorm.Open(mysql.Open(config.C.MySQLDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}

	// 连接池：空闲、上限与可复用时长。
	// ConnMaxLifetime 设为 1 小时以规避 MySQL 的 wait_timeout 掐断连接。
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection successfully established and connection pool configured.")
}

// MigrateTables 建表/补列。生产环境建议改用迁移脚本后禁用。
func MigrateTables() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.Task{},
		&models.RepoPost{},
		&models.RepoVote{},
		&models.RepoContext{},
		&models.AnalysisJob{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("Database migration completed.")
}
