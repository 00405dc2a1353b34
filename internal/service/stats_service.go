package service

import (
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/scoring"
	"devtrack_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// StatsService 只读查询：快照、按天活动、知识点、技能画像
type StatsService struct {
	Builder     *ProfileBuilder
	ProfileRepo *repository.SkillProfileRepository
	now         func() time.Time
}

func NewStatsService(builder *ProfileBuilder, profileRepo *repository.SkillProfileRepository) *StatsService {
	return &StatsService{Builder: builder, ProfileRepo: profileRepo, now: func() time.Time { return time.Now().UTC() }}
}

// Snapshots 按固定平台顺序返回当前账号对应的快照
func (s *StatsService) Snapshots(userID uint) ([]*model.ExternalStatSnapshot, error) {
	data, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.ExternalStatSnapshot, 0, len(data.Snapshots))
	for _, p := range model.Platforms {
		if snap, ok := data.Snapshots[p]; ok {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (s *StatsService) Activity(userID uint, days int) ([]model.UnifiedActivityRecord, error) {
	if days <= 0 {
		days = util.DefaultActivityDays
	}
	if days > util.MaxActivityDays {
		days = util.MaxActivityDays
	}
	data, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return data.Activity().Window(s.now(), days), nil
}

func (s *StatsService) Topics(userID uint) (*model.TopicBreakdown, error) {
	data, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	stats := data.TopicStats()
	weak, strong := scoring.ClassifyTopics(stats)
	return &model.TopicBreakdown{
		Stats:        stats,
		WeakTopics:   weak,
		StrongTopics: strong,
		ActiveTopic:  scoring.ActiveTopic(data.Roadmap, stats),
	}, nil
}

// SkillProfile 优先返回最近一次同步持久化的画像；从未同步时按已有数据即时计算
func (s *StatsService) SkillProfile(userID uint) (*model.SkillProfileView, error) {
	record, err := s.ProfileRepo.FindByUser(userID)
	if err == nil {
		computedAt := record.ComputedAt
		return &model.SkillProfileView{SkillProfile: record.Profile(), ComputedAt: &computedAt}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	data, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return &model.SkillProfileView{SkillProfile: data.Compute(s.now())}, nil
}

func (s *StatsService) load(userID uint) (*UserData, error) {
	data, err := s.Builder.Load(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return data, err
}
