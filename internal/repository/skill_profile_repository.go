package repository

import (
	"devtrack_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SkillProfileRepository struct {
	DB *gorm.DB
}

func NewSkillProfileRepository(db *gorm.DB) *SkillProfileRepository {
	return &SkillProfileRepository{DB: db}
}

func (r *SkillProfileRepository) Upsert(record *model.SkillProfileRecord) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"dsa_score", "development_score", "consistency_score", "overall_score",
			"weak_topics", "strong_topics", "study_streak_days", "learning_velocity",
			"computed_at", "updated_at",
		}),
	}).Create(record).Error
}

func (r *SkillProfileRepository) FindByUser(userID uint) (*model.SkillProfileRecord, error) {
	var record model.SkillProfileRecord
	err := r.DB.Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *SkillProfileRepository) FindByUsers(userIDs []uint) ([]model.SkillProfileRecord, error) {
	var records []model.SkillProfileRecord
	if len(userIDs) == 0 {
		return records, nil
	}
	err := r.DB.Where("user_id IN ?", userIDs).Find(&records).Error
	return records, err
}

type leaderboardRow struct {
	UserID           uint
	Name             string
	OverallScore     int
	DSAScore         int
	DevelopmentScore int
	ConsistencyScore int
	StudyStreakDays  int
}

// Top 按总分倒序，同分按用户 ID 升序
func (r *SkillProfileRepository) Top(limit int) ([]model.LeaderboardEntry, error) {
	var rows []leaderboardRow
	err := r.DB.Table("skill_profiles").
		Select("skill_profiles.user_id, users.name, skill_profiles.overall_score, skill_profiles.dsa_score, " +
			"skill_profiles.development_score, skill_profiles.consistency_score, skill_profiles.study_streak_days").
		Joins("JOIN users ON users.id = skill_profiles.user_id AND users.deleted_at IS NULL").
		Where("skill_profiles.deleted_at IS NULL").
		Order("skill_profiles.overall_score DESC").
		Order("skill_profiles.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, model.LeaderboardEntry{
			Rank:             i + 1,
			UserID:           row.UserID,
			Name:             row.Name,
			OverallScore:     row.OverallScore,
			DSAScore:         row.DSAScore,
			DevelopmentScore: row.DevelopmentScore,
			ConsistencyScore: row.ConsistencyScore,
			StudyStreakDays:  row.StudyStreakDays,
		})
	}
	return entries, nil
}

type ProfileScore struct {
	UserID       uint
	OverallScore int
}

func (r *SkillProfileRepository) ListScores() ([]ProfileScore, error) {
	var scores []ProfileScore
	err := r.DB.Model(&model.SkillProfileRecord{}).
		Select("user_id, overall_score").
		Scan(&scores).Error
	return scores, err
}
