package service

import (
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/util"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const maxHandleLength = 64

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetHandles(userID uint) (model.PlatformHandles, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return model.PlatformHandles{}, err
	}
	return user.Handles(), nil
}

// UpdateHandles 空字符串表示解绑该平台
func (s *UserService) UpdateHandles(userID uint, h model.PlatformHandles) (model.PlatformHandles, error) {
	h = model.PlatformHandles{
		Codeforces: strings.TrimSpace(h.Codeforces),
		LeetCode:   strings.TrimSpace(h.LeetCode),
		GitHub:     strings.TrimSpace(h.GitHub),
	}
	for _, p := range model.Platforms {
		if len(h.Get(p)) > maxHandleLength {
			return model.PlatformHandles{}, fmt.Errorf("%w: %s handle exceeds %d characters", util.ErrInvalidHandle, p.DisplayName(), maxHandleLength)
		}
	}
	if _, err := s.GetUser(userID); err != nil {
		return model.PlatformHandles{}, err
	}
	if err := s.UserRepo.UpdateHandles(userID, h); err != nil {
		return model.PlatformHandles{}, err
	}
	return h, nil
}
