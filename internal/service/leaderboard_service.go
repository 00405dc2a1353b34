package service

import (
	"context"
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
	"devtrack_backend/pkg/logger"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardKey = "devtrack:leaderboard"

// 同分时按用户 ID 升序：分数编码为 overall*1e10 + (1e10-1-userID)
const leaderboardTieSpan = 1e10

type LeaderboardService struct {
	ProfileRepo *repository.SkillProfileRepository
	UserRepo    *repository.UserRepository
	Redis       *redis.Client
}

func NewLeaderboardService(profileRepo *repository.SkillProfileRepository, userRepo *repository.UserRepository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{ProfileRepo: profileRepo, UserRepo: userRepo, Redis: rdb}
}

func leaderboardScore(userID uint, overall int) float64 {
	return float64(overall)*leaderboardTieSpan + (leaderboardTieSpan - 1 - float64(userID))
}

// Record 同步完成后更新排行榜缓存，失败只记录日志
func (s *LeaderboardService) Record(ctx context.Context, userID uint, overall int) {
	if s.Redis == nil {
		return
	}
	err := s.Redis.ZAdd(ctx, leaderboardKey, &redis.Z{
		Score:  leaderboardScore(userID, overall),
		Member: strconv.FormatUint(uint64(userID), 10),
	}).Err()
	if err != nil {
		logger.Log.Warn("更新排行榜缓存失败", zap.Uint("userID", userID), zap.Error(err))
	}
}

// Warm 启动时用数据库中的画像重建缓存
func (s *LeaderboardService) Warm(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	scores, err := s.ProfileRepo.ListScores()
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		return nil
	}
	members := make([]*redis.Z, 0, len(scores))
	for _, sc := range scores {
		members = append(members, &redis.Z{
			Score:  leaderboardScore(sc.UserID, sc.OverallScore),
			Member: strconv.FormatUint(uint64(sc.UserID), 10),
		})
	}
	pipe := s.Redis.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	pipe.ZAdd(ctx, leaderboardKey, members...)
	_, err = pipe.Exec(ctx)
	return err
}

// Top Redis 可用时读缓存，否则回退到数据库排序
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if s.Redis != nil {
		entries, err := s.topFromCache(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			logger.Log.Warn("读取排行榜缓存失败，回退到数据库", zap.Error(err))
		}
	}
	return s.ProfileRepo.Top(limit)
}

func (s *LeaderboardService) topFromCache(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	members, err := s.Redis.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}

	profiles, err := s.ProfileRepo.FindByUsers(ids)
	if err != nil {
		return nil, err
	}
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uint]model.SkillProfileRecord, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	entries := make([]model.LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		p, ok := byUser[id]
		name, exists := names[id]
		if !ok || !exists {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			Rank:             len(entries) + 1,
			UserID:           id,
			Name:             name,
			OverallScore:     p.OverallScore,
			DSAScore:         p.DSAScore,
			DevelopmentScore: p.DevelopmentScore,
			ConsistencyScore: p.ConsistencyScore,
			StudyStreakDays:  p.StudyStreakDays,
		})
	}
	return entries, nil
}
