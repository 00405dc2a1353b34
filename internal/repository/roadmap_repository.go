package repository

import (
	"devtrack_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoadmapRepository struct {
	DB *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: db}
}

func (r *RoadmapRepository) ListByUser(userID uint) ([]model.RoadmapProgress, error) {
	var items []model.RoadmapProgress
	err := r.DB.Where("user_id = ?", userID).Find(&items).Error
	return items, err
}

func (r *RoadmapRepository) Upsert(item *model.RoadmapProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "topic"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress", "updated_at"}),
	}).Create(item).Error
}
