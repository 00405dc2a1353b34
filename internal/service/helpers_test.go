package service

import (
	"context"
	"devtrack_backend/internal/config"
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/telemetry"
	"devtrack_backend/pkg/database"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	snapshots   *repository.SnapshotRepository
	sessions    *repository.SessionRepository
	attempts    *repository.AttemptRepository
	roadmap     *repository.RoadmapRepository
	profiles    *repository.SkillProfileRepository
	states      *repository.SyncStateRepository
	builder     *ProfileBuilder
	leaderboard *LeaderboardService
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		snapshots: repository.NewSnapshotRepository(db),
		sessions:  repository.NewSessionRepository(db),
		attempts:  repository.NewAttemptRepository(db),
		roadmap:   repository.NewRoadmapRepository(db),
		profiles:  repository.NewSkillProfileRepository(db),
		states:    repository.NewSyncStateRepository(db),
	}
	env.builder = NewProfileBuilder(env.users, env.snapshots, env.sessions, env.attempts, env.roadmap)
	env.leaderboard = NewLeaderboardService(env.profiles, env.users, nil)
	return env
}

func (e *testEnv) createUser(t *testing.T, name string, h model.PlatformHandles) *model.User {
	t.Helper()
	u := &model.User{
		Name:             name,
		Email:            strings.ToLower(name) + "@example.com",
		Password:         "x",
		Role:             model.Student,
		CodeforcesHandle: h.Codeforces,
		LeetCodeHandle:   h.LeetCode,
		GitHubHandle:     h.GitHub,
	}
	if err := e.users.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *testEnv) syncService(c TelemetryCollector) *SyncService {
	s := NewSyncService(e.builder, e.snapshots, e.profiles, e.states, c, e.leaderboard, nil, nil, config.SyncConfig{})
	s.now = func() time.Time { return testNow }
	return s
}

func intPtr(v int) *int { return &v }

// fakeCollector 按平台返回预设快照；gate 非空时在返回前阻塞
type fakeCollector struct {
	mu        sync.Mutex
	snapshots map[model.Platform]*model.ExternalStatSnapshot
	statuses  map[model.Platform]string
	calls     [][]model.Platform
	entered   chan struct{}
	gate      chan struct{}
	active    int
	maxActive int
}

func newFakeCollector() *fakeCollector {
	return &fakeCollector{
		snapshots: make(map[model.Platform]*model.ExternalStatSnapshot),
		statuses:  make(map[model.Platform]string),
	}
}

func (f *fakeCollector) Collect(ctx context.Context, handles model.PlatformHandles, platforms []model.Platform) []telemetry.Result {
	f.mu.Lock()
	f.calls = append(f.calls, append([]model.Platform(nil), platforms...))
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	entered, gate := f.entered, f.gate
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active--
	out := make([]telemetry.Result, 0, len(platforms))
	for _, p := range platforms {
		res := telemetry.Result{Platform: p, Status: model.FetchStatus{Platform: p, Status: model.FetchStatusOK}}
		if st, ok := f.statuses[p]; ok {
			res.Status.Status = st
		} else if snap, ok := f.snapshots[p]; ok {
			cp := *snap
			cp.Handle = handles.Get(p)
			cp.FetchedAt = testNow
			res.Snapshot = &cp
		} else {
			res.Status.Status = model.FetchStatusTransient
		}
		out = append(out, res)
	}
	return out
}

func (f *fakeCollector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCollector) lastCall() []model.Platform {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}
