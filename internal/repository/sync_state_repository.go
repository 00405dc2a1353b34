package repository

import (
	"devtrack_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SyncStateRepository struct {
	DB *gorm.DB
}

func NewSyncStateRepository(db *gorm.DB) *SyncStateRepository {
	return &SyncStateRepository{DB: db}
}

func (r *SyncStateRepository) Upsert(state *model.SyncState) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"handle", "last_synced_at", "last_status", "last_message", "updated_at"}),
	}).Create(state).Error
}

func (r *SyncStateRepository) ListByUser(userID uint) ([]model.SyncState, error) {
	var states []model.SyncState
	err := r.DB.Where("user_id = ?", userID).Find(&states).Error
	return states, err
}
