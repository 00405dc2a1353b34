// 手动触发一轮同步脚本
//
// 定时同步已集成到主应用的后台任务中（间隔见 sync.interval_minutes）。
// 此脚本用于手动触发，例如首次部署后批量拉取数据，或排查单个用户的同步问题。
//
// 用法:
//
//	go run scripts/sync_stale.go            # 同步所有数据过期的用户（一批）
//	go run scripts/sync_stale.go -user 42   # 强制同步指定用户

package main

import (
	"context"
	"devtrack_backend/internal/config"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/telemetry"
	"devtrack_backend/pkg/database"
	"devtrack_backend/pkg/logger"
	"encoding/json"
	"flag"
	"log"
	"os"
)

func main() {
	userID := flag.Uint("user", 0, "只强制同步该用户")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Printf("Redis 不可用，仅使用本地互斥: %v", err)
		rdb = nil
	}

	users := repository.NewUserRepository(db)
	snapshots := repository.NewSnapshotRepository(db)
	profiles := repository.NewSkillProfileRepository(db)
	builder := service.NewProfileBuilder(users, snapshots,
		repository.NewSessionRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewRoadmapRepository(db),
	)
	syncService := service.NewSyncService(
		builder,
		snapshots,
		profiles,
		repository.NewSyncStateRepository(db),
		telemetry.NewCollector(cfg.Telemetry),
		service.NewLeaderboardService(profiles, users, rdb),
		service.NewStorageService(cfg),
		rdb,
		cfg.Sync,
	)

	ctx := context.Background()
	if *userID != 0 {
		report, err := syncService.Sync(ctx, *userID, true, service.TriggerManual)
		if err != nil {
			log.Fatalf("同步失败: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
		return
	}

	log.Println("手动触发过期数据同步...")
	synced, err := syncService.SyncStaleUsers(ctx)
	if err != nil {
		log.Fatalf("同步失败: %v", err)
	}
	log.Printf("完成！共同步 %d 个用户", synced)
}
