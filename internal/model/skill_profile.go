package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SkillProfile 每次同步时从零重算，不做增量修补
// swagger:model SkillProfile
type SkillProfile struct {
	DSAScore         int      `json:"dsaScore"`
	DevelopmentScore int      `json:"developmentScore"`
	ConsistencyScore int      `json:"consistencyScore"`
	OverallScore     int      `json:"overallScore"`
	WeakTopics       []string `json:"weakTopics"`
	StrongTopics     []string `json:"strongTopics"`
	StudyStreakDays  int      `json:"studyStreakDays"`
	LearningVelocity float64  `json:"learningVelocity"`
}

// SkillProfileRecord 持久化的技能画像，排行榜基于它排序
type SkillProfileRecord struct {
	BaseModel
	UserID           uint `gorm:"uniqueIndex;not null"`
	DSAScore         int  `gorm:"default:0"`
	DevelopmentScore int  `gorm:"default:0"`
	ConsistencyScore int  `gorm:"default:0"`
	OverallScore     int  `gorm:"default:0;index"`
	WeakTopics       datatypes.JSON
	StrongTopics     datatypes.JSON
	StudyStreakDays  int     `gorm:"default:0"`
	LearningVelocity float64 `gorm:"default:0"`
	ComputedAt       time.Time
}

func (SkillProfileRecord) TableName() string {
	return "skill_profiles"
}

func NewSkillProfileRecord(userID uint, p SkillProfile, computedAt time.Time) *SkillProfileRecord {
	weak, _ := json.Marshal(nonNil(p.WeakTopics))
	strong, _ := json.Marshal(nonNil(p.StrongTopics))
	return &SkillProfileRecord{
		UserID:           userID,
		DSAScore:         p.DSAScore,
		DevelopmentScore: p.DevelopmentScore,
		ConsistencyScore: p.ConsistencyScore,
		OverallScore:     p.OverallScore,
		WeakTopics:       datatypes.JSON(weak),
		StrongTopics:     datatypes.JSON(strong),
		StudyStreakDays:  p.StudyStreakDays,
		LearningVelocity: p.LearningVelocity,
		ComputedAt:       computedAt,
	}
}

// Profile 损坏的主题列表按空列表处理，画像本身可随时重算
func (r *SkillProfileRecord) Profile() SkillProfile {
	p := SkillProfile{
		DSAScore:         r.DSAScore,
		DevelopmentScore: r.DevelopmentScore,
		ConsistencyScore: r.ConsistencyScore,
		OverallScore:     r.OverallScore,
		WeakTopics:       []string{},
		StrongTopics:     []string{},
		StudyStreakDays:  r.StudyStreakDays,
		LearningVelocity: r.LearningVelocity,
	}
	if len(r.WeakTopics) > 0 {
		if err := json.Unmarshal(r.WeakTopics, &p.WeakTopics); err != nil {
			p.WeakTopics = []string{}
		}
	}
	if len(r.StrongTopics) > 0 {
		if err := json.Unmarshal(r.StrongTopics, &p.StrongTopics); err != nil {
			p.StrongTopics = []string{}
		}
	}
	return p
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
