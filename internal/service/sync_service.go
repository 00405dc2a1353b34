package service

import (
	"context"
	"devtrack_backend/internal/config"
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/telemetry"
	"devtrack_backend/internal/util"
	"devtrack_backend/pkg/logger"
	"devtrack_backend/pkg/monitoring"
	"devtrack_backend/pkg/tracing"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	TriggerManual = "manual"
	TriggerTimer  = "timer"

	syncLockPrefix   = "devtrack:sync:lock:"
	leasePollEvery   = 250 * time.Millisecond
	staleConcurrency = 4
)

// 只有持有者才能释放租约
var releaseLeaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TelemetryCollector 并发抓取并在全部返回后汇合，永不返回错误
type TelemetryCollector interface {
	Collect(ctx context.Context, handles model.PlatformHandles, platforms []model.Platform) []telemetry.Result
}

// SyncService 一次同步：抓取 -> 归一化 -> 聚合 -> 打分 -> 持久化。
// 同一用户同时只允许一次同步；未指定 force 的重复触发直接跳过，
// force 会等待进行中的同步结束后再执行自己的一轮。
type SyncService struct {
	Builder       *ProfileBuilder
	SnapshotRepo  *repository.SnapshotRepository
	ProfileRepo   *repository.SkillProfileRepository
	SyncStateRepo *repository.SyncStateRepository
	UserRepo      *repository.UserRepository
	Collector     TelemetryCollector
	Leaderboard   *LeaderboardService
	Storage       *StorageService
	Redis         *redis.Client
	Cfg           config.SyncConfig

	now func() time.Time

	mu       sync.Mutex
	inFlight map[uint]chan struct{}
}

func NewSyncService(
	builder *ProfileBuilder,
	snapshotRepo *repository.SnapshotRepository,
	profileRepo *repository.SkillProfileRepository,
	syncStateRepo *repository.SyncStateRepository,
	collector TelemetryCollector,
	leaderboard *LeaderboardService,
	storage *StorageService,
	rdb *redis.Client,
	cfg config.SyncConfig,
) *SyncService {
	return &SyncService{
		Builder:       builder,
		SnapshotRepo:  snapshotRepo,
		ProfileRepo:   profileRepo,
		SyncStateRepo: syncStateRepo,
		UserRepo:      builder.UserRepo,
		Collector:     collector,
		Leaderboard:   leaderboard,
		Storage:       storage,
		Redis:         rdb,
		Cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
		inFlight:      make(map[uint]chan struct{}),
	}
}

// IsSyncing 本实例或其他实例（通过 Redis 租约）正在同步该用户
func (s *SyncService) IsSyncing(ctx context.Context, userID uint) bool {
	s.mu.Lock()
	_, busy := s.inFlight[userID]
	s.mu.Unlock()
	if busy || s.Redis == nil {
		return busy
	}
	n, err := s.Redis.Exists(ctx, lockKey(userID)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Sync 触发一次同步。重复触发且未 force 时返回 Skipped 报告而不是错误。
func (s *SyncService) Sync(ctx context.Context, userID uint, force bool, trigger string) (*model.SyncReport, error) {
	release, ok, err := s.acquire(ctx, userID, force)
	if err != nil {
		return nil, err
	}
	if !ok {
		monitoring.SyncTotal.WithLabelValues(trigger, "skipped").Inc()
		logger.Log.Info("同步进行中，跳过本次触发", zap.Uint("userID", userID), zap.String("trigger", trigger))
		now := s.now()
		return &model.SyncReport{
			RunID:      uuid.NewString(),
			UserID:     userID,
			Skipped:    true,
			Forced:     force,
			StartedAt:  now,
			FinishedAt: now,
			Fetches:    []model.FetchStatus{},
		}, nil
	}
	defer release()

	start := time.Now()
	report, err := s.run(ctx, userID, force)
	monitoring.SyncDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.SyncTotal.WithLabelValues(trigger, "failed").Inc()
		return nil, err
	}
	monitoring.SyncTotal.WithLabelValues(trigger, "completed").Inc()
	return report, nil
}

func (s *SyncService) acquire(ctx context.Context, userID uint, force bool) (func(), bool, error) {
	for {
		s.mu.Lock()
		done, busy := s.inFlight[userID]
		if !busy {
			ch := make(chan struct{})
			s.inFlight[userID] = ch
			s.mu.Unlock()

			releaseLocal := func() {
				s.mu.Lock()
				delete(s.inFlight, userID)
				s.mu.Unlock()
				close(ch)
			}

			token, ok, err := s.acquireLease(ctx, userID, force)
			if err != nil || !ok {
				releaseLocal()
				return nil, false, err
			}
			return func() {
				s.releaseLease(userID, token)
				releaseLocal()
			}, true, nil
		}
		s.mu.Unlock()

		if !force {
			return nil, false, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return nil, false, fmt.Errorf("%w: %v", util.ErrSyncInProgress, ctx.Err())
		}
	}
}

// acquireLease Redis 不可用时退化为仅本实例互斥
func (s *SyncService) acquireLease(ctx context.Context, userID uint, force bool) (string, bool, error) {
	if s.Redis == nil {
		return "", true, nil
	}
	token := uuid.NewString()
	for {
		ok, err := s.Redis.SetNX(ctx, lockKey(userID), token, s.Cfg.LockTTL()).Result()
		if err != nil {
			logger.Log.Warn("获取同步租约失败，仅使用本地互斥", zap.Uint("userID", userID), zap.Error(err))
			return "", true, nil
		}
		if ok {
			return token, true, nil
		}
		if !force {
			return "", false, nil
		}
		select {
		case <-time.After(leasePollEvery):
		case <-ctx.Done():
			return "", false, fmt.Errorf("%w: %v", util.ErrSyncInProgress, ctx.Err())
		}
	}
}

func (s *SyncService) releaseLease(userID uint, token string) {
	if s.Redis == nil || token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseLeaseScript.Run(ctx, s.Redis, []string{lockKey(userID)}, token).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("释放同步租约失败", zap.Uint("userID", userID), zap.Error(err))
	}
}

func lockKey(userID uint) string {
	return fmt.Sprintf("%s%d", syncLockPrefix, userID)
}

func (s *SyncService) run(ctx context.Context, userID uint, force bool) (report *model.SyncReport, err error) {
	ctx, span := tracing.StartSpan(ctx, "sync.pass",
		attribute.Int64("user.id", int64(userID)),
		attribute.Bool("sync.force", force),
	)
	defer func() { tracing.EndSpan(span, err) }()

	started := s.now()
	report = &model.SyncReport{
		RunID:     uuid.NewString(),
		UserID:    userID,
		Forced:    force,
		StartedAt: started,
	}

	data, err := s.Builder.Load(userID)
	if err != nil {
		return nil, err
	}
	handles := data.User.Handles()

	statuses := make(map[model.Platform]model.FetchStatus, len(model.Platforms))
	var toFetch []model.Platform
	for _, p := range model.Platforms {
		switch {
		case handles.Get(p) == "":
			statuses[p] = model.FetchStatus{Platform: p, Status: model.FetchStatusNotConfigured}
		case !force && !data.Snapshots[p].IsStale(started, s.Cfg.StaleAfter()):
			statuses[p] = model.FetchStatus{Platform: p, Status: model.FetchStatusFresh}
		default:
			toFetch = append(toFetch, p)
		}
	}

	if len(toFetch) > 0 {
		fetchCtx, cancel := context.WithTimeout(ctx, s.Cfg.PassTimeout())
		results := s.Collector.Collect(fetchCtx, handles, toFetch)
		cancel()

		fetchedAt := s.now()
		for _, r := range results {
			statuses[r.Platform] = r.Status
			if r.Snapshot != nil {
				s.saveSnapshot(userID, r.Snapshot)
				data.Snapshots[r.Platform] = r.Snapshot
			}
			s.saveState(userID, handles.Get(r.Platform), r.Status, fetchedAt)
		}
	}

	report.Fetches = make([]model.FetchStatus, 0, len(model.Platforms))
	for _, p := range model.Platforms {
		report.Fetches = append(report.Fetches, statuses[p])
	}

	computedAt := s.now()
	profile := data.Compute(computedAt)
	if err = s.ProfileRepo.Upsert(model.NewSkillProfileRecord(userID, profile, computedAt)); err != nil {
		return nil, err
	}
	if s.Leaderboard != nil {
		s.Leaderboard.Record(ctx, userID, profile.OverallScore)
	}

	report.Profile = &profile
	report.FinishedAt = s.now()

	if s.Storage != nil {
		if _, aerr := s.Storage.ArchiveReport(ctx, report); aerr != nil {
			logger.Log.Warn("同步报告归档失败", zap.String("runID", report.RunID), zap.Error(aerr))
		}
	}

	logger.Log.Info("同步完成",
		zap.Uint("userID", userID),
		zap.String("runID", report.RunID),
		zap.Bool("force", force),
		zap.Int("overall", profile.OverallScore),
		zap.Duration("elapsed", report.FinishedAt.Sub(started)))
	return report, nil
}

// 单个平台持久化失败不影响本轮打分
func (s *SyncService) saveSnapshot(userID uint, snap *model.ExternalStatSnapshot) {
	record, err := model.NewStatSnapshotRecord(userID, snap)
	if err == nil {
		err = s.SnapshotRepo.Upsert(record)
	}
	if err != nil {
		logger.Log.Error("保存平台快照失败",
			zap.Uint("userID", userID),
			zap.String("platform", string(snap.Platform)),
			zap.Error(err))
	}
}

func (s *SyncService) saveState(userID uint, handle string, status model.FetchStatus, at time.Time) {
	state := &model.SyncState{
		UserID:       userID,
		Platform:     string(status.Platform),
		Handle:       handle,
		LastSyncedAt: at,
		LastStatus:   status.Status,
		LastMessage:  status.Message,
	}
	if err := s.SyncStateRepo.Upsert(state); err != nil {
		logger.Log.Error("保存同步状态失败", zap.Uint("userID", userID), zap.Error(err))
	}
}

// Status 同步状态：是否进行中、各平台最近同步时间与是否过期
func (s *SyncService) Status(ctx context.Context, userID uint) (*model.SyncStatus, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	states, err := s.SyncStateRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	records, err := s.SnapshotRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	byPlatform := make(map[string]model.SyncState, len(states))
	for _, st := range states {
		byPlatform[st.Platform] = st
	}
	fetched := make(map[string]time.Time, len(records))
	for _, r := range records {
		if r.Handle == user.Handle(model.Platform(r.Platform)) {
			fetched[r.Platform] = r.FetchedAt
		}
	}

	now := s.now()
	status := &model.SyncStatus{IsSyncing: s.IsSyncing(ctx, userID)}
	for _, p := range model.Platforms {
		item := model.SourceSyncStatus{Platform: p}
		if user.Handle(p) == "" {
			item.LastStatus = model.FetchStatusNotConfigured
			status.Sources = append(status.Sources, item)
			continue
		}
		if st, ok := byPlatform[string(p)]; ok {
			at := st.LastSyncedAt
			item.LastSyncedAt = &at
			item.LastStatus = st.LastStatus
			item.LastMessage = st.LastMessage
		}
		at, ok := fetched[string(p)]
		item.Stale = !ok || now.Sub(at) > s.Cfg.StaleAfter()
		status.Sources = append(status.Sources, item)
	}
	return status, nil
}

// SyncStaleUsers 定时任务：同步数据过期的一批用户，不同用户之间并发执行
func (s *SyncService) SyncStaleUsers(ctx context.Context) (int, error) {
	batch := s.Cfg.BatchSize
	if batch <= 0 {
		batch = 20
	}
	ids, err := s.UserRepo.FindDueForSync(s.now().Add(-s.Cfg.StaleAfter()), batch)
	if err != nil {
		return 0, err
	}

	var (
		mu     sync.Mutex
		synced int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(staleConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			report, err := s.Sync(gctx, id, false, TriggerTimer)
			if err != nil {
				logger.Log.Warn("定时同步失败", zap.Uint("userID", id), zap.Error(err))
				return nil
			}
			if !report.Skipped {
				mu.Lock()
				synced++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return synced, nil
}
