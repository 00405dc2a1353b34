package database

import (
	"devtrack_backend/internal/config"
	"devtrack_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	// 日期按 UTC 存取，按天聚合时不受服务器时区影响
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=UTC",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate 建表；测试中对 sqlite 同样适用
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.StudySession{},
		&model.ProblemAttempt{},
		&model.RoadmapProgress{},
		&model.StatSnapshotRecord{},
		&model.SkillProfileRecord{},
		&model.SyncState{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}
