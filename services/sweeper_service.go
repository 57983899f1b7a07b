// file: services/sweeper_service.go
package services

import (
	"ByteList/database"
	"ByteList/models"
	"context"
	"log"
	"time"

	"gorm.io/gorm"
)

// Sweeper 是后台清扫器：按固定周期推进超时任务并清理到达硬性过期时间的记录。
//
// 时钟通过 Now 字段注入，测试里直接拨表调 SweepOnce，不等真实定时器。
// 任何单条记录的失败只记日志不中断——查询是基于状态的，下个周期天然自愈。
type Sweeper struct {
	Interval time.Duration
	Now      func() time.Time
}

func NewSweeper(interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{Interval: interval, Now: time.Now}
}

// Start 启动清扫循环，ctx 取消后停止。
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		log.Printf("Task sweeper started, interval=%s", s.Interval)
		for {
			select {
			case <-ctx.Done():
				log.Println("Task sweeper stopped.")
				return
			case <-ticker.C:
				s.SweepOnce()
			}
		}
	}()
}

// SweepOnce 执行一轮清扫：先做 TTL 硬删除，再推进超时任务。
func (s *Sweeper) SweepOnce() {
	now := s.Now()
	if err := s.purgeExpired(now); err != nil {
		log.Printf("Sweeper: purge expired records failed: %v", err)
	}
	s.advanceOverdue(now)
}

// purgeExpired 删除过了 expire_at 的挑战与任务（原系统由 Mongo TTL 索引完成，
// MySQL 下由清扫器代管）。删除先于超时扫描：到达硬上限的任务直接消失，不再被推进。
func (s *Sweeper) purgeExpired(now time.Time) error {
	if err := database.DB.Where("expire_at < ?", now).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	return database.DB.Where("expire_at < ?", now).Delete(&models.Challenge{}).Error
}

// advanceOverdue 对每个工作窗口已过且未完成未关闭的任务消耗一次尝试，
// 耗尽则永久关闭；未耗尽则把窗口整体前移一个时长，给下一次尝试一个完整窗口
// （否则同一任务每个周期都会被重复扣次）。
func (s *Sweeper) advanceOverdue(now time.Time) {
	type overdueTask struct {
		ID              uint64
		DurationMinutes uint
	}
	var due []overdueTask
	err := database.DB.Model(&models.Task{}).
		Select("id", "duration_minutes").
		Where("duration_ends_at < ? AND is_completed = ? AND is_permanently_disabled = ?", now, false, false).
		Find(&due).Error
	if err != nil {
		log.Printf("Sweeper: overdue query failed: %v", err)
		return
	}

	for _, t := range due {
		if err := s.sweepTask(t.ID, t.DurationMinutes, now); err != nil {
			log.Printf("Sweeper: task %d sweep failed: %v", t.ID, err)
		}
	}
	if len(due) > 0 {
		log.Printf("Sweeper: processed %d overdue task(s).", len(due))
	}
}

// sweepTask 在单个事务内完成一次超时推进。
// 递增语句重查全部谓词（含 duration_ends_at），并发的清扫/放弃在行锁后重新求值
// WHERE 会落空，保证同一次超时事件恰好只被计一次。
func (s *Sweeper) sweepTask(taskID uint64, durationMinutes uint, now time.Time) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Task{}).
			Where("id = ? AND duration_ends_at < ? AND is_completed = ? AND is_permanently_disabled = ?",
				taskID, now, false, false).
			Update("attempts_used", gorm.Expr("attempts_used + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 查询到事务之间已被别人处理
			return nil
		}

		if err := tx.Model(&models.Task{}).
			Where("id = ? AND attempts_used >= attempts_allowed", taskID).
			Update("is_permanently_disabled", true).Error; err != nil {
			return err
		}

		// 还有剩余次数：发一个从当前时刻起算的新工作窗口
		return tx.Model(&models.Task{}).
			Where("id = ? AND is_permanently_disabled = ?", taskID, false).
			Update("duration_ends_at", now.Add(time.Duration(durationMinutes)*time.Minute)).Error
	})
}
