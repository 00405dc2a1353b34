package service

import (
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/util"
	"fmt"
	"strings"
	"time"
)

const maxSessionMinutes = 24 * 60

type SessionService struct {
	SessionRepo *repository.SessionRepository
	now         func() time.Time
}

func NewSessionService(sessionRepo *repository.SessionRepository) *SessionService {
	return &SessionService{SessionRepo: sessionRepo, now: func() time.Time { return time.Now().UTC() }}
}

// Create date 为空时记为今天；按日期正午（UTC）存储，避免时区换算跨天
func (s *SessionService) Create(userID uint, date string, minutes int, topic, notes string) (*model.StudySession, error) {
	if minutes <= 0 || minutes > maxSessionMinutes {
		return nil, util.ErrInvalidMinutes
	}

	day := s.now()
	if strings.TrimSpace(date) != "" {
		parsed, err := time.Parse(util.DateFormat, strings.TrimSpace(date))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", util.ErrInvalidDate, date)
		}
		day = parsed
	}
	studiedAt := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)

	session := &model.StudySession{
		UserID:    userID,
		StudiedAt: studiedAt,
		Minutes:   minutes,
		Topic:     strings.TrimSpace(topic),
		Notes:     strings.TrimSpace(notes),
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) List(userID uint, limit int) ([]model.StudySession, error) {
	if limit <= 0 {
		limit = util.DefaultSessionsLimit
	}
	return s.SessionRepo.ListRecent(userID, limit)
}

func (s *SessionService) Delete(userID, id uint) error {
	n, err := s.SessionRepo.Delete(userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrSessionNotFound
	}
	return nil
}
