package repository

import (
	"devtrack_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.StudySession) error {
	return r.DB.Create(session).Error
}

// ListByUser 按时间倒序；since 为零值时返回全部
func (r *SessionRepository) ListByUser(userID uint, since time.Time) ([]model.StudySession, error) {
	var sessions []model.StudySession
	query := r.DB.Where("user_id = ?", userID)
	if !since.IsZero() {
		query = query.Where("studied_at >= ?", since)
	}
	err := query.Order("studied_at DESC").Order("id DESC").Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) ListRecent(userID uint, limit int) ([]model.StudySession, error) {
	var sessions []model.StudySession
	err := r.DB.Where("user_id = ?", userID).
		Order("studied_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// Delete 只能删除自己的记录，返回受影响行数
func (r *SessionRepository) Delete(userID, id uint) (int64, error) {
	res := r.DB.Where("user_id = ? AND id = ?", userID, id).Delete(&model.StudySession{})
	return res.RowsAffected, res.Error
}
