package repository

import (
	"devtrack_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.ProblemAttempt) error {
	return r.DB.Create(attempt).Error
}

// ListByUser 按记录顺序返回，聚合时的“首次出现顺序”依赖这一点
func (r *AttemptRepository) ListByUser(userID uint) ([]model.ProblemAttempt, error) {
	var attempts []model.ProblemAttempt
	err := r.DB.Where("user_id = ?", userID).Order("id ASC").Find(&attempts).Error
	return attempts, err
}
