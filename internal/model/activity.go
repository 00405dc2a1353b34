package model

import (
	"time"
)

// StudySession 用户手动记录的一次学习
// swagger:model StudySession
type StudySession struct {
	BaseModel
	UserID    uint      `gorm:"index;not null" json:"userId"`
	StudiedAt time.Time `gorm:"index;not null" json:"studiedAt"`
	Minutes   int       `gorm:"default:0" json:"minutes"`
	Topic     string    `gorm:"size:100" json:"topic"`
	Notes     string    `gorm:"type:text" json:"notes"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

// DailyActivity 本地学习记录按天汇总后的结果
type DailyActivity struct {
	Minutes  int      `json:"minutes"`
	Sessions int      `json:"sessions"`
	Topics   []string `json:"topics"`
}

type ActivitySources struct {
	DevTrack bool `json:"devtrack"`
	CF       bool `json:"cf"`
	GH       bool `json:"gh"`
}

// UnifiedActivityRecord 每个 (用户, 日期) 一条，合并所有来源
// swagger:model UnifiedActivityRecord
type UnifiedActivityRecord struct {
	Date           string          `json:"date"`
	Sources        ActivitySources `json:"sources"`
	MinutesStudied int             `json:"minutesStudied"`
	Topics         []string        `json:"topics"`
}
