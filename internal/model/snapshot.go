package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ExternalStatSnapshot 某个平台在某一时刻的统计摘要。
// 抓取后不可变，下次同步时整体替换。
// swagger:model ExternalStatSnapshot
type ExternalStatSnapshot struct {
	Platform            Platform          `json:"platform"`
	Handle              string            `json:"handle"`
	Rating              *int              `json:"rating,omitempty"`
	MaxRating           *int              `json:"maxRating,omitempty"`
	Rank                string            `json:"rank,omitempty"`
	SolvedCount         int               `json:"solvedCount"`
	RecentActivityDates []string          `json:"recentActivityDates"`
	FetchedAt           time.Time         `json:"fetchedAt"`
	Codeforces          *CodeforcesDetail `json:"codeforces,omitempty"`
	LeetCode            *LeetCodeDetail   `json:"leetcode,omitempty"`
	GitHub              *GitHubDetail     `json:"github,omitempty"`
}

type CodeforcesDetail struct {
	Attempts []TopicAttempt `json:"attempts"`
}

type LeetCodeDetail struct {
	EasySolved   int `json:"easySolved"`
	MediumSolved int `json:"mediumSolved"`
	HardSolved   int `json:"hardSolved"`
}

type GitHubDetail struct {
	PublicRepos       int `json:"publicRepos"`
	Followers         int `json:"followers"`
	TotalStars        int `json:"totalStars"`
	CommitsLast30Days int `json:"commitsLast30Days"`
	CommitsLast90Days int `json:"commitsLast90Days"`
}

// IsStale 超过 maxAge 的快照可以刷新，但不会被静默删除
func (s *ExternalStatSnapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	if s == nil {
		return true
	}
	return now.Sub(s.FetchedAt) > maxAge
}

// DateSet 返回活跃日期集合
func (s *ExternalStatSnapshot) DateSet() map[string]struct{} {
	set := make(map[string]struct{})
	if s == nil {
		return set
	}
	for _, d := range s.RecentActivityDates {
		set[d] = struct{}{}
	}
	return set
}

// StatSnapshotRecord 快照的持久化形式，每个 (用户, 平台) 一行
type StatSnapshotRecord struct {
	BaseModel
	UserID        uint   `gorm:"not null;uniqueIndex:idx_snapshot_user_platform"`
	Platform      string `gorm:"size:8;not null;uniqueIndex:idx_snapshot_user_platform"`
	Handle        string `gorm:"size:64"`
	Rating        *int
	MaxRating     *int
	Rank          string `gorm:"column:platform_rank;size:64"`
	SolvedCount   int    `gorm:"default:0"`
	ActivityDates datatypes.JSON
	Detail        datatypes.JSON
	FetchedAt     time.Time `gorm:"index"`
}

func (StatSnapshotRecord) TableName() string {
	return "stat_snapshots"
}

type snapshotDetail struct {
	Codeforces *CodeforcesDetail `json:"codeforces,omitempty"`
	LeetCode   *LeetCodeDetail   `json:"leetcode,omitempty"`
	GitHub     *GitHubDetail     `json:"github,omitempty"`
}

// NewStatSnapshotRecord 把快照转换为可持久化的行
func NewStatSnapshotRecord(userID uint, s *ExternalStatSnapshot) (*StatSnapshotRecord, error) {
	dates := s.RecentActivityDates
	if dates == nil {
		dates = []string{}
	}
	datesJSON, err := json.Marshal(dates)
	if err != nil {
		return nil, err
	}
	detailJSON, err := json.Marshal(snapshotDetail{Codeforces: s.Codeforces, LeetCode: s.LeetCode, GitHub: s.GitHub})
	if err != nil {
		return nil, err
	}
	return &StatSnapshotRecord{
		UserID:        userID,
		Platform:      string(s.Platform),
		Handle:        s.Handle,
		Rating:        s.Rating,
		MaxRating:     s.MaxRating,
		Rank:          s.Rank,
		SolvedCount:   s.SolvedCount,
		ActivityDates: datatypes.JSON(datesJSON),
		Detail:        datatypes.JSON(detailJSON),
		FetchedAt:     s.FetchedAt,
	}, nil
}

// Snapshot 还原为领域对象；JSON 列损坏时返回错误
func (r *StatSnapshotRecord) Snapshot() (*ExternalStatSnapshot, error) {
	s := &ExternalStatSnapshot{
		Platform:            Platform(r.Platform),
		Handle:              r.Handle,
		Rating:              r.Rating,
		MaxRating:           r.MaxRating,
		Rank:                r.Rank,
		SolvedCount:         r.SolvedCount,
		RecentActivityDates: []string{},
		FetchedAt:           r.FetchedAt,
	}
	if len(r.ActivityDates) > 0 {
		if err := json.Unmarshal(r.ActivityDates, &s.RecentActivityDates); err != nil {
			return nil, err
		}
	}
	if len(r.Detail) > 0 {
		var d snapshotDetail
		if err := json.Unmarshal(r.Detail, &d); err != nil {
			return nil, err
		}
		s.Codeforces, s.LeetCode, s.GitHub = d.Codeforces, d.LeetCode, d.GitHub
	}
	return s, nil
}
