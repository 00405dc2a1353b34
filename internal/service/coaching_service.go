package service

import (
	"context"
	"devtrack_backend/internal/coaching"
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
)

const coachingSessionCount = 10

type CoachingService struct {
	Builder     *ProfileBuilder
	ProfileRepo *repository.SkillProfileRepository
	Coach       *coaching.Coach
}

func NewCoachingService(builder *ProfileBuilder, profileRepo *repository.SkillProfileRepository, coach *coaching.Coach) *CoachingService {
	return &CoachingService{Builder: builder, ProfileRepo: profileRepo, Coach: coach}
}

// Analyze 教练失败时返回默认分析，只有加载用户数据失败才返回错误
func (s *CoachingService) Analyze(ctx context.Context, userID uint) (model.CoachingAnalysis, error) {
	data, err := s.Builder.Load(userID)
	if err != nil {
		return model.CoachingAnalysis{}, err
	}
	profile, err := currentProfile(s.ProfileRepo, data)
	if err != nil {
		return model.CoachingAnalysis{}, err
	}

	recent := data.Sessions
	if len(recent) > coachingSessionCount {
		recent = recent[:coachingSessionCount]
	}
	return s.Coach.Analyze(ctx, coaching.Summary{
		Profile:        profile,
		Topics:         data.TopicStats(),
		RecentSessions: recent,
	}), nil
}
