package repository

import (
	"devtrack_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnapshotRepository struct {
	DB *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{DB: db}
}

// Upsert 每个 (用户, 平台) 只保留最新快照，整体替换
func (r *SnapshotRepository) Upsert(record *model.StatSnapshotRecord) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"handle", "rating", "max_rating", "platform_rank", "solved_count",
			"activity_dates", "detail", "fetched_at", "updated_at",
		}),
	}).Create(record).Error
}

func (r *SnapshotRepository) ListByUser(userID uint) ([]model.StatSnapshotRecord, error) {
	var records []model.StatSnapshotRecord
	err := r.DB.Where("user_id = ?", userID).Order("platform").Find(&records).Error
	return records, err
}

func (r *SnapshotRepository) FindByUserAndPlatform(userID uint, p model.Platform) (*model.StatSnapshotRecord, error) {
	var record model.StatSnapshotRecord
	err := r.DB.Where("user_id = ? AND platform = ?", userID, string(p)).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
