package service

import (
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/scoring"
	"devtrack_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// ProfileBuilder 从数据库加载一个用户的全部输入，供同步、统计、推荐共用
type ProfileBuilder struct {
	UserRepo     *repository.UserRepository
	SnapshotRepo *repository.SnapshotRepository
	SessionRepo  *repository.SessionRepository
	AttemptRepo  *repository.AttemptRepository
	RoadmapRepo  *repository.RoadmapRepository
}

func NewProfileBuilder(
	userRepo *repository.UserRepository,
	snapshotRepo *repository.SnapshotRepository,
	sessionRepo *repository.SessionRepository,
	attemptRepo *repository.AttemptRepository,
	roadmapRepo *repository.RoadmapRepository,
) *ProfileBuilder {
	return &ProfileBuilder{
		UserRepo:     userRepo,
		SnapshotRepo: snapshotRepo,
		SessionRepo:  sessionRepo,
		AttemptRepo:  attemptRepo,
		RoadmapRepo:  roadmapRepo,
	}
}

// UserData 某一时刻的用户输入快照
type UserData struct {
	User      *model.User
	Snapshots map[model.Platform]*model.ExternalStatSnapshot
	Sessions  []model.StudySession
	Attempts  []model.ProblemAttempt
	Roadmap   []model.RoadmapProgress
}

func (b *ProfileBuilder) Load(userID uint) (*UserData, error) {
	user, err := b.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	records, err := b.SnapshotRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	snapshots := make(map[model.Platform]*model.ExternalStatSnapshot, len(records))
	for i := range records {
		snap, err := records[i].Snapshot()
		if err != nil {
			logger.Log.Warn("快照数据损坏，已忽略",
				zap.Uint("userID", userID),
				zap.String("platform", records[i].Platform),
				zap.Error(err))
			continue
		}
		// 账号变更后旧快照不再参与计算
		if !snap.Platform.Valid() || snap.Handle != user.Handle(snap.Platform) {
			continue
		}
		snapshots[snap.Platform] = snap
	}

	sessions, err := b.SessionRepo.ListByUser(userID, time.Time{})
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].StudiedAt = sessions[i].StudiedAt.UTC()
	}

	attempts, err := b.AttemptRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	roadmap, err := b.RoadmapRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	return &UserData{
		User:      user,
		Snapshots: snapshots,
		Sessions:  sessions,
		Attempts:  attempts,
		Roadmap:   roadmap,
	}, nil
}

func (d *UserData) Activity() scoring.ActivityMap {
	return scoring.MergeActivity(
		scoring.DailyHistory(d.Sessions),
		d.Snapshots[model.PlatformCodeforces].DateSet(),
		d.Snapshots[model.PlatformGitHub].DateSet(),
		d.Snapshots[model.PlatformLeetCode].DateSet(),
	)
}

// TopicAttempts CF 提交在前，手动记录在后
func (d *UserData) TopicAttempts() []model.TopicAttempt {
	var attempts []model.TopicAttempt
	if cf := d.Snapshots[model.PlatformCodeforces]; cf != nil && cf.Codeforces != nil {
		attempts = append(attempts, cf.Codeforces.Attempts...)
	}
	for _, a := range d.Attempts {
		attempts = append(attempts, a.ToTopicAttempt())
	}
	return attempts
}

func (d *UserData) TopicStats() []model.TopicStat {
	return scoring.AggregateTopics(d.TopicAttempts())
}

func (d *UserData) SessionDates() []string {
	dates := make([]string, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		dates = append(dates, s.StudiedAt.UTC().Format(model.DateLayout))
	}
	return dates
}

func (d *UserData) RoadmapCompletion() model.RoadmapCompletion {
	return RoadmapCompletion(d.Roadmap)
}

func (d *UserData) ProfileInput() scoring.ProfileInput {
	return scoring.ProfileInput{
		Codeforces:   d.Snapshots[model.PlatformCodeforces],
		LeetCode:     d.Snapshots[model.PlatformLeetCode],
		GitHub:       d.Snapshots[model.PlatformGitHub],
		Activity:     d.Activity(),
		Topics:       d.TopicStats(),
		Roadmap:      d.RoadmapCompletion(),
		SessionDates: d.SessionDates(),
	}
}

func (d *UserData) Compute(now time.Time) model.SkillProfile {
	return scoring.ComputeProfile(d.ProfileInput(), now)
}

// RoadmapCompletion 只统计固定路线上的节点
func RoadmapCompletion(progress []model.RoadmapProgress) model.RoadmapCompletion {
	completed := 0
	for _, p := range progress {
		if p.Progress >= 100 && model.CanonicalRoadmapTopic(p.Topic) != "" {
			completed++
		}
	}
	return model.RoadmapCompletion{Completed: completed, Total: len(model.RoadmapTopics)}
}
