package model

import "time"

// SyncState 每个 (用户, 平台) 的最近同步状态
type SyncState struct {
	BaseModel
	UserID       uint      `gorm:"not null;uniqueIndex:idx_sync_user_platform" json:"userId"`
	Platform     string    `gorm:"size:8;not null;uniqueIndex:idx_sync_user_platform" json:"platform"`
	Handle       string    `gorm:"size:64" json:"handle"`
	LastSyncedAt time.Time `gorm:"index" json:"lastSyncedAt"`
	LastStatus   string    `gorm:"size:32" json:"lastStatus"`
	LastMessage  string    `gorm:"size:255" json:"lastMessage"`
}

func (SyncState) TableName() string {
	return "sync_states"
}

// FetchStatus 单个平台在一次同步中的结果，仅用于给用户展示
type FetchStatus struct {
	Platform Platform `json:"platform"`
	Status   string   `json:"status"`
	Message  string   `json:"message,omitempty"`
}

const (
	FetchStatusOK            = "ok"
	FetchStatusSkipped       = "skipped"
	FetchStatusFresh         = "fresh"
	FetchStatusNotConfigured = "not_configured"
	FetchStatusNotFound      = "not_found"
	FetchStatusTransient     = "transient"
	FetchStatusMalformed     = "malformed"
)

// SyncReport 一次完整同步的结果
// swagger:model SyncReport
type SyncReport struct {
	RunID      string        `json:"runId"`
	UserID     uint          `json:"userId"`
	Skipped    bool          `json:"skipped"`
	Forced     bool          `json:"forced"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Fetches    []FetchStatus `json:"fetches"`
	Profile    *SkillProfile `json:"profile,omitempty"`
}

// SourceSyncStatus 同步状态查询的单项
type SourceSyncStatus struct {
	Platform     Platform   `json:"platform"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	Stale        bool       `json:"stale"`
	LastStatus   string     `json:"lastStatus,omitempty"`
	LastMessage  string     `json:"lastMessage,omitempty"`
}

type SyncStatus struct {
	IsSyncing bool               `json:"isSyncing"`
	Sources   []SourceSyncStatus `json:"sources"`
}
