package service

import (
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/recommend"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/scoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

type RecommendationService struct {
	Builder     *ProfileBuilder
	ProfileRepo *repository.SkillProfileRepository
	Selector    *recommend.Selector
}

func NewRecommendationService(builder *ProfileBuilder, profileRepo *repository.SkillProfileRepository, selector *recommend.Selector) *RecommendationService {
	return &RecommendationService{Builder: builder, ProfileRepo: profileRepo, Selector: selector}
}

func (s *RecommendationService) Recommend(userID uint, limit int) (model.RecommendationSet, error) {
	data, err := s.Builder.Load(userID)
	if err != nil {
		return model.RecommendationSet{}, err
	}
	profile, err := currentProfile(s.ProfileRepo, data)
	if err != nil {
		return model.RecommendationSet{}, err
	}

	in := recommend.Input{
		Profile:     profile,
		WeakTopics:  profile.WeakTopics,
		ActiveTopic: scoring.ActiveTopic(data.Roadmap, data.TopicStats()),
		Roadmap:     data.Roadmap,
		Limit:       limit,
	}
	if cf := data.Snapshots[model.PlatformCodeforces]; cf != nil {
		in.CFRating = cf.Rating
	}
	if gh := data.Snapshots[model.PlatformGitHub]; gh != nil && gh.GitHub != nil {
		in.PublicRepos = gh.GitHub.PublicRepos
	}
	return s.Selector.Select(in), nil
}

// currentProfile 已持久化的画像优先，否则即时计算
func currentProfile(repo *repository.SkillProfileRepository, data *UserData) (model.SkillProfile, error) {
	record, err := repo.FindByUser(data.User.ID)
	if err == nil {
		return record.Profile(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SkillProfile{}, err
	}
	return data.Compute(time.Now().UTC()), nil
}
