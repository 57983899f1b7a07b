// file: database/redis.go
package database

import (
	"context"
	"log"
	"time"

	"ByteList/config"

	"github.com/redis/go-redis/v9"
)

// RDB 为 nil 时所有缓存路径直接回落数据库（测试环境不起 Redis）。
var RDB *redis.Client
var Ctx = context.Background()

func InitRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.C.RedisAddr,
		Password: config.C.RedisPassword,
		DB:       config.C.RedisDB,
		PoolSize: 100,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Redis connection successfully established.")
}
