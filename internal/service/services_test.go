package service

import (
	"context"
	"devtrack_backend/internal/coaching"
	"devtrack_backend/internal/config"
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/recommend"
	"devtrack_backend/internal/util"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSessionService(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Alan", model.PlatformHandles{})
	other := env.createUser(t, "Other", model.PlatformHandles{})
	svc := NewSessionService(env.sessions)
	svc.now = func() time.Time { return testNow }

	if _, err := svc.Create(user.ID, "", 0, "dp", ""); !errors.Is(err, util.ErrInvalidMinutes) {
		t.Fatalf("zero minutes err=%v", err)
	}
	if _, err := svc.Create(user.ID, "19/10/2026", 30, "dp", ""); !errors.Is(err, util.ErrInvalidDate) {
		t.Fatalf("bad date err=%v", err)
	}

	today, err := svc.Create(user.ID, "", 45, " dp ", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if today.StudiedAt.Format(model.DateLayout) != "2026-10-19" || today.Topic != "dp" {
		t.Fatalf("session=%+v", today)
	}
	if _, err := svc.Create(user.ID, "2026-10-17", 20, "graphs", "bfs"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := svc.List(user.ID, 0)
	if err != nil || len(list) != 2 {
		t.Fatalf("list=%v err=%v", list, err)
	}
	if list[0].ID != today.ID {
		t.Fatalf("sessions must be newest first")
	}

	if err := svc.Delete(other.ID, today.ID); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("deleting another user's session err=%v", err)
	}
	if err := svc.Delete(user.ID, today.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = svc.List(user.ID, 0)
	if len(list) != 1 {
		t.Fatalf("after delete len=%d", len(list))
	}
}

func TestAttemptService(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Barbara", model.PlatformHandles{})
	svc := NewAttemptService(env.attempts)

	if _, err := svc.Record(user.ID, "Two Sum", " ", "AC", 800); !errors.Is(err, util.ErrInvalidTopic) {
		t.Fatalf("err=%v", err)
	}
	if _, err := svc.Record(user.ID, "Two Sum", "arrays", "", 800); !errors.Is(err, util.ErrInvalidVerdict) {
		t.Fatalf("err=%v", err)
	}
	a, err := svc.Record(user.ID, "Two Sum", "arrays", " ac ", -5)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if a.Verdict != "AC" || a.Rating != 0 || !a.ToTopicAttempt().Solved() {
		t.Fatalf("attempt=%+v", a)
	}
}

func TestRoadmapService(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Tim", model.PlatformHandles{})
	svc := NewRoadmapService(env.roadmap)

	if _, err := svc.Update(user.ID, "Quantum Basics", 10); !errors.Is(err, util.ErrUnknownRoadmapTopic) {
		t.Fatalf("err=%v", err)
	}
	if _, err := svc.Update(user.ID, "React Hooks", 101); !errors.Is(err, util.ErrInvalidProgress) {
		t.Fatalf("err=%v", err)
	}
	if _, err := svc.Update(user.ID, "dynamic programming", 100); err != nil {
		t.Fatalf("Update: %v", err)
	}
	view, err := svc.Update(user.ID, "Dynamic Programming", 100)
	if err != nil {
		t.Fatalf("Update twice: %v", err)
	}
	if _, err := svc.Update(user.ID, "React Hooks", 40); err != nil {
		t.Fatalf("Update: %v", err)
	}
	view, _ = svc.Get(user.ID)

	if len(view.Items) != len(model.RoadmapTopics) {
		t.Fatalf("items=%d", len(view.Items))
	}
	if view.Completion != (model.RoadmapCompletion{Completed: 1, Total: 13}) {
		t.Fatalf("completion=%+v", view.Completion)
	}
	if view.Items[0].Topic != "HTML & CSS Basics" || view.Items[0].Progress != 0 {
		t.Fatalf("first item=%+v", view.Items[0])
	}
}

func TestUserServiceHandles(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Margaret", model.PlatformHandles{Codeforces: "mh"})
	svc := NewUserService(env.users)

	h, err := svc.UpdateHandles(user.ID, model.PlatformHandles{Codeforces: "  mh2 ", GitHub: "margaret"})
	if err != nil {
		t.Fatalf("UpdateHandles: %v", err)
	}
	if h.Codeforces != "mh2" {
		t.Fatalf("handles=%+v", h)
	}
	got, _ := svc.GetHandles(user.ID)
	if got != h {
		t.Fatalf("stored=%+v want %+v", got, h)
	}
	if _, err := svc.GetHandles(9999); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	svc := NewAuthService(env.users, cfg)

	u := &model.User{Name: "Radia", Email: " Radia@Example.com ", Password: "password123"}
	if err := svc.Register(u); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Register(&model.User{Name: "dup", Email: "radia@example.com", Password: "password123"}); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate err=%v", err)
	}
	if _, _, err := svc.Login("radia@example.com", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("wrong password err=%v", err)
	}
	token, user, err := svc.Login("radia@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	if err != nil || claims.UserID != user.ID {
		t.Fatalf("claims=%+v err=%v", claims, err)
	}
}

func TestStatsService(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Ada", model.PlatformHandles{Codeforces: "ada_cf", GitHub: "ada"})
	sessions := NewSessionService(env.sessions)
	sessions.now = func() time.Time { return testNow }
	sessions.Create(user.ID, "2026-10-18", 30, "graphs", "")
	sessions.Create(user.ID, "2026-10-18", 15, "dp", "")

	stats := NewStatsService(env.builder, env.profiles)
	stats.now = func() time.Time { return testNow }

	live, err := stats.SkillProfile(user.ID)
	if err != nil {
		t.Fatalf("SkillProfile: %v", err)
	}
	if live.ComputedAt != nil {
		t.Fatalf("profile should be computed on the fly before any sync")
	}

	if _, err := env.syncService(cfAndGitHub()).Sync(context.Background(), user.ID, false, TriggerManual); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	activity, err := stats.Activity(user.ID, 7)
	if err != nil {
		t.Fatalf("Activity: %v", err)
	}
	if len(activity) != 2 {
		t.Fatalf("activity=%+v", activity)
	}
	var oct18 model.UnifiedActivityRecord
	for _, rec := range activity {
		if rec.Date == "2026-10-18" {
			oct18 = rec
		}
	}
	if oct18.MinutesStudied != 45 || !oct18.Sources.DevTrack || !oct18.Sources.CF || oct18.Sources.GH {
		t.Fatalf("2026-10-18=%+v", oct18)
	}

	topics, err := stats.Topics(user.ID)
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if len(topics.WeakTopics) != 1 || topics.ActiveTopic != "graphs" {
		t.Fatalf("topics=%+v", topics)
	}

	persisted, err := stats.SkillProfile(user.ID)
	if err != nil || persisted.ComputedAt == nil {
		t.Fatalf("persisted=%+v err=%v", persisted, err)
	}

	snaps, err := stats.Snapshots(user.ID)
	if err != nil || len(snaps) != 2 || snaps[0].Platform != model.PlatformCodeforces {
		t.Fatalf("snapshots=%v err=%v", snaps, err)
	}

	if _, err := stats.Topics(424242); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("unknown user err=%v", err)
	}
}

func TestLeaderboardFallsBackToDatabase(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, "A", model.PlatformHandles{})
	b := env.createUser(t, "B", model.PlatformHandles{})
	c := env.createUser(t, "C", model.PlatformHandles{})
	env.profiles.Upsert(model.NewSkillProfileRecord(a.ID, model.SkillProfile{OverallScore: 40}, testNow))
	env.profiles.Upsert(model.NewSkillProfileRecord(b.ID, model.SkillProfile{OverallScore: 70}, testNow))
	env.profiles.Upsert(model.NewSkillProfileRecord(c.ID, model.SkillProfile{OverallScore: 40}, testNow))
	env.profiles.Upsert(model.NewSkillProfileRecord(a.ID, model.SkillProfile{OverallScore: 55}, testNow))

	entries, err := env.leaderboard.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	want := []uint{b.ID, a.ID, c.ID}
	if len(entries) != len(want) {
		t.Fatalf("entries=%+v", entries)
	}
	for i, e := range entries {
		if e.UserID != want[i] || e.Rank != i+1 {
			t.Fatalf("entry %d=%+v", i, e)
		}
	}
}

func TestLeaderboardScoreOrdersTiesByUserID(t *testing.T) {
	if leaderboardScore(1, 50) <= leaderboardScore(2, 50) {
		t.Fatalf("lower user id must rank first on ties")
	}
	if leaderboardScore(999, 51) <= leaderboardScore(1, 50) {
		t.Fatalf("higher overall must rank first")
	}
}

func TestRecommendationService(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Ada", model.PlatformHandles{Codeforces: "ada_cf"})
	if _, err := env.syncService(cfAndGitHub()).Sync(context.Background(), user.ID, false, TriggerManual); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	svc := NewRecommendationService(env.builder, env.profiles, recommend.NewSelector(recommend.DefaultBank))
	set, err := svc.Recommend(user.ID, 6)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(set.DSAProblems) != 6 || len(set.WebProjects) == 0 || len(set.OpenSourceItems) == 0 {
		t.Fatalf("set=%+v", set)
	}
	if set.DSAProblems[0].Content.Topic != "graphs" {
		t.Fatalf("weak topic not prioritised: %+v", set.DSAProblems[0])
	}
	if set.ActiveTopic != "graphs" {
		t.Fatalf("active=%q", set.ActiveTopic)
	}

	// 进行中的路线节点成为活跃主题，占用第一个重点名额
	if err := env.roadmap.Upsert(&model.RoadmapProgress{UserID: user.ID, Topic: "Dynamic Programming", Progress: 50}); err != nil {
		t.Fatalf("roadmap: %v", err)
	}
	set, err = svc.Recommend(user.ID, 6)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if set.ActiveTopic != "Dynamic Programming" || set.DSAProblems[0].Content.Topic != "dp" || set.DSAProblems[1].Content.Topic != "graphs" {
		t.Fatalf("active=%q picks=%+v", set.ActiveTopic, set.DSAProblems[:2])
	}

	empty := NewRecommendationService(env.builder, env.profiles, recommend.NewSelector(nil))
	set, _ = empty.Recommend(user.ID, 6)
	if len(set.DSAProblems) != 3 {
		t.Fatalf("starter fallback len=%d", len(set.DSAProblems))
	}
}

type failingOracle struct{}

func (failingOracle) Complete(ctx context.Context, system, prompt string) (string, error) {
	return "", errors.New("unavailable")
}

func TestCoachingServiceFallsBack(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Ada", model.PlatformHandles{})
	svc := NewCoachingService(env.builder, env.profiles, coaching.NewCoach(failingOracle{}, time.Second))

	analysis, err := svc.Analyze(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !analysis.Fallback || len(analysis.DailyPlan) != coaching.PlanLength {
		t.Fatalf("analysis=%+v", analysis)
	}
}

func TestArchiveReportLocal(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}}
	storage := NewStorageService(cfg)

	report := &model.SyncReport{RunID: "run-1", UserID: 7, StartedAt: testNow}
	url, err := storage.ArchiveReport(context.Background(), report)
	if err != nil {
		t.Fatalf("ArchiveReport: %v", err)
	}
	if url != "/reports/reports/7/2026-10-19/run-1.json" {
		t.Fatalf("url=%q", url)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "reports", "7", "2026-10-19", "run-1.json"))
	if err != nil {
		t.Fatalf("read archived report: %v", err)
	}
	var got model.SyncReport
	if err := json.Unmarshal(raw, &got); err != nil || got.RunID != "run-1" {
		t.Fatalf("archived=%s err=%v", raw, err)
	}
}
