package service

import (
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/util"
	"strings"
)

type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
}

func NewAttemptService(attemptRepo *repository.AttemptRepository) *AttemptService {
	return &AttemptService{AttemptRepo: attemptRepo}
}

// Record 手动记录一次做题；verdict 统一大写，OK / AC 视为通过
func (s *AttemptService) Record(userID uint, problem, topic, verdict string, rating int) (*model.ProblemAttempt, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, util.ErrInvalidTopic
	}
	verdict = strings.ToUpper(strings.TrimSpace(verdict))
	if verdict == "" {
		return nil, util.ErrInvalidVerdict
	}
	if rating < 0 {
		rating = 0
	}

	attempt := &model.ProblemAttempt{
		UserID:  userID,
		Problem: strings.TrimSpace(problem),
		Topic:   topic,
		Verdict: verdict,
		Rating:  rating,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) List(userID uint) ([]model.ProblemAttempt, error) {
	return s.AttemptRepo.ListByUser(userID)
}
