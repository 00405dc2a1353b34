package service

import (
	"context"
	"devtrack_backend/internal/model"
	"sync"
	"testing"
	"time"
)

func cfAndGitHub() *fakeCollector {
	c := newFakeCollector()
	c.snapshots[model.PlatformCodeforces] = &model.ExternalStatSnapshot{
		Platform:            model.PlatformCodeforces,
		Rating:              intPtr(1400),
		SolvedCount:         30,
		RecentActivityDates: []string{"2026-10-18"},
		Codeforces: &model.CodeforcesDetail{Attempts: []model.TopicAttempt{
			{Topic: "graphs", Verdict: "WRONG_ANSWER", Rating: 1500},
			{Topic: "graphs", Verdict: "WRONG_ANSWER", Rating: 1500},
			{Topic: "graphs", Verdict: "OK", Rating: 1500},
		}},
	}
	c.snapshots[model.PlatformGitHub] = &model.ExternalStatSnapshot{
		Platform:            model.PlatformGitHub,
		RecentActivityDates: []string{"2026-10-17"},
		GitHub:              &model.GitHubDetail{PublicRepos: 50, CommitsLast30Days: 100, TotalStars: 200},
	}
	return c
}

func TestSyncComputesAndPersistsProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Ada", model.PlatformHandles{Codeforces: "ada_cf", GitHub: "ada"})
	collector := cfAndGitHub()
	svc := env.syncService(collector)

	report, err := svc.Sync(context.Background(), user.ID, false, TriggerManual)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Skipped || report.RunID == "" {
		t.Fatalf("unexpected report: %+v", report)
	}

	want := []string{model.FetchStatusOK, model.FetchStatusNotConfigured, model.FetchStatusOK}
	for i, st := range report.Fetches {
		if st.Status != want[i] {
			t.Fatalf("fetch %d status=%q want %q", i, st.Status, want[i])
		}
	}

	p := report.Profile
	if p.DSAScore != 16 {
		t.Fatalf("dsa=%d want 16", p.DSAScore)
	}
	if p.DevelopmentScore != 100 {
		t.Fatalf("dev=%d want 100", p.DevelopmentScore)
	}
	if len(p.WeakTopics) != 1 || p.WeakTopics[0] != "graphs" {
		t.Fatalf("weak=%v", p.WeakTopics)
	}

	record, err := env.profiles.FindByUser(user.ID)
	if err != nil {
		t.Fatalf("profile not persisted: %v", err)
	}
	if record.OverallScore != p.OverallScore || !record.ComputedAt.Equal(testNow) {
		t.Fatalf("persisted=%+v", record)
	}

	snaps, _ := env.snapshots.ListByUser(user.ID)
	if len(snaps) != 2 {
		t.Fatalf("snapshots=%d", len(snaps))
	}
	states, _ := env.states.ListByUser(user.ID)
	if len(states) != 2 {
		t.Fatalf("states=%d", len(states))
	}
}

func TestSyncSkipsWhileInFlight(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Grace", model.PlatformHandles{Codeforces: "grace"})
	collector := cfAndGitHub()
	collector.entered = make(chan struct{}, 1)
	collector.gate = make(chan struct{})
	svc := env.syncService(collector)

	var (
		wg    sync.WaitGroup
		first *model.SyncReport
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, _ = svc.Sync(context.Background(), user.ID, false, TriggerManual)
	}()

	<-collector.entered
	if !svc.IsSyncing(context.Background(), user.ID) {
		t.Fatalf("expected user to be syncing")
	}

	second, err := svc.Sync(context.Background(), user.ID, false, TriggerManual)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if !second.Skipped || second.Profile != nil {
		t.Fatalf("second trigger should be a no-op, got %+v", second)
	}

	close(collector.gate)
	wg.Wait()

	if first == nil || first.Skipped {
		t.Fatalf("first sync did not complete: %+v", first)
	}
	if collector.callCount() != 1 {
		t.Fatalf("collector calls=%d want 1", collector.callCount())
	}
	if svc.IsSyncing(context.Background(), user.ID) {
		t.Fatalf("sync flag not cleared")
	}
}

func TestForcedSyncWaitsForRunningPass(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Linus", model.PlatformHandles{Codeforces: "linus"})
	collector := cfAndGitHub()
	collector.entered = make(chan struct{}, 2)
	collector.gate = make(chan struct{})
	svc := env.syncService(collector)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.Sync(context.Background(), user.ID, false, TriggerManual)
	}()
	<-collector.entered

	forced := make(chan *model.SyncReport, 1)
	go func() {
		r, _ := svc.Sync(context.Background(), user.ID, true, TriggerManual)
		forced <- r
	}()

	select {
	case <-forced:
		t.Fatalf("forced sync must wait for the running pass")
	case <-time.After(50 * time.Millisecond):
	}

	close(collector.gate)
	wg.Wait()

	r := <-forced
	if r == nil || r.Skipped || !r.Forced {
		t.Fatalf("forced report=%+v", r)
	}
	if collector.callCount() != 2 {
		t.Fatalf("collector calls=%d want 2", collector.callCount())
	}
	if collector.maxActive != 1 {
		t.Fatalf("passes interleaved: max active=%d", collector.maxActive)
	}
}

func TestSyncDifferentUsersRunIndependently(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, "A", model.PlatformHandles{Codeforces: "a"})
	b := env.createUser(t, "B", model.PlatformHandles{Codeforces: "b"})
	collector := cfAndGitHub()
	collector.entered = make(chan struct{}, 2)
	collector.gate = make(chan struct{})
	svc := env.syncService(collector)

	var wg sync.WaitGroup
	for _, id := range []uint{a.ID, b.ID} {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r, err := svc.Sync(context.Background(), id, false, TriggerManual); err != nil || r.Skipped {
				t.Errorf("user %d: report=%+v err=%v", id, r, err)
			}
		}()
	}
	<-collector.entered
	<-collector.entered
	close(collector.gate)
	wg.Wait()
}

func TestNonForcedSyncSkipsFreshSources(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Ken", model.PlatformHandles{Codeforces: "ken", GitHub: "ken"})
	collector := cfAndGitHub()
	svc := env.syncService(collector)

	if _, err := svc.Sync(context.Background(), user.ID, false, TriggerManual); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	report, err := svc.Sync(context.Background(), user.ID, false, TriggerManual)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if collector.callCount() != 1 {
		t.Fatalf("fresh sources were refetched: calls=%d", collector.callCount())
	}
	if report.Fetches[0].Status != model.FetchStatusFresh {
		t.Fatalf("cf status=%q", report.Fetches[0].Status)
	}
	if report.Profile.DSAScore != 16 {
		t.Fatalf("fresh snapshot not used: dsa=%d", report.Profile.DSAScore)
	}

	svc.now = func() time.Time { return testNow.Add(25 * time.Hour) }
	if _, err := svc.Sync(context.Background(), user.ID, false, TriggerManual); err != nil {
		t.Fatalf("third Sync: %v", err)
	}
	if collector.callCount() != 2 {
		t.Fatalf("stale sources were not refetched")
	}
}

func TestSyncKeepsPreviousSnapshotOnFailure(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Barbara", model.PlatformHandles{Codeforces: "barbara"})
	collector := cfAndGitHub()
	svc := env.syncService(collector)

	if _, err := svc.Sync(context.Background(), user.ID, false, TriggerManual); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	collector.mu.Lock()
	collector.statuses[model.PlatformCodeforces] = model.FetchStatusTransient
	collector.mu.Unlock()

	report, err := svc.Sync(context.Background(), user.ID, true, TriggerManual)
	if err != nil {
		t.Fatalf("forced Sync: %v", err)
	}
	if report.Fetches[0].Status != model.FetchStatusTransient {
		t.Fatalf("status=%q", report.Fetches[0].Status)
	}
	if report.Profile.DSAScore != 16 {
		t.Fatalf("previous snapshot dropped: dsa=%d", report.Profile.DSAScore)
	}
}

func TestSyncHandleChangeIgnoresOldSnapshot(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Edsger", model.PlatformHandles{Codeforces: "old"})
	collector := cfAndGitHub()
	svc := env.syncService(collector)
	if _, err := svc.Sync(context.Background(), user.ID, false, TriggerManual); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if err := env.users.UpdateHandles(user.ID, model.PlatformHandles{Codeforces: "new"}); err != nil {
		t.Fatalf("UpdateHandles: %v", err)
	}
	collector.mu.Lock()
	collector.statuses[model.PlatformCodeforces] = model.FetchStatusNotFound
	collector.mu.Unlock()

	report, err := svc.Sync(context.Background(), user.ID, false, TriggerManual)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if collector.callCount() != 2 {
		t.Fatalf("changed handle must be refetched")
	}
	if report.Profile.DSAScore != 0 {
		t.Fatalf("old handle snapshot still scored: dsa=%d", report.Profile.DSAScore)
	}
}

func TestSyncStatus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Donald", model.PlatformHandles{Codeforces: "don", LeetCode: "don"})
	svc := env.syncService(cfAndGitHub())

	status, err := svc.Status(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.IsSyncing || len(status.Sources) != 3 {
		t.Fatalf("status=%+v", status)
	}
	if !status.Sources[0].Stale || status.Sources[0].LastSyncedAt != nil {
		t.Fatalf("never-synced source should be stale: %+v", status.Sources[0])
	}
	if status.Sources[2].LastStatus != model.FetchStatusNotConfigured || status.Sources[2].Stale {
		t.Fatalf("github=%+v", status.Sources[2])
	}

	if _, err := svc.Sync(context.Background(), user.ID, false, TriggerManual); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	status, _ = svc.Status(context.Background(), user.ID)
	cf, lc := status.Sources[0], status.Sources[1]
	if cf.Stale || cf.LastSyncedAt == nil || cf.LastStatus != model.FetchStatusOK {
		t.Fatalf("cf=%+v", cf)
	}
	// LeetCode 抓取失败：有同步时间但没有快照
	if !lc.Stale || lc.LastSyncedAt == nil || lc.LastStatus != model.FetchStatusTransient {
		t.Fatalf("lc=%+v", lc)
	}
}

func TestSyncStaleUsers(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "One", model.PlatformHandles{Codeforces: "one"})
	env.createUser(t, "Two", model.PlatformHandles{GitHub: "two"})
	env.createUser(t, "Nobody", model.PlatformHandles{})
	collector := cfAndGitHub()
	svc := env.syncService(collector)

	n, err := svc.SyncStaleUsers(context.Background())
	if err != nil {
		t.Fatalf("SyncStaleUsers: %v", err)
	}
	if n != 2 {
		t.Fatalf("synced=%d want 2", n)
	}

	n, err = svc.SyncStaleUsers(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("second pass synced=%d err=%v", n, err)
	}
}

func TestSyncStaleUsersPicksUpNewHandle(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Barbara", model.PlatformHandles{Codeforces: "barbara"})
	collector := cfAndGitHub()
	svc := env.syncService(collector)

	if n, err := svc.SyncStaleUsers(context.Background()); err != nil || n != 1 {
		t.Fatalf("first pass synced=%d err=%v", n, err)
	}

	if err := env.users.UpdateHandles(user.ID, model.PlatformHandles{Codeforces: "barbara", LeetCode: "barbara_lc"}); err != nil {
		t.Fatalf("UpdateHandles: %v", err)
	}
	n, err := svc.SyncStaleUsers(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("new handle pass synced=%d err=%v", n, err)
	}
	if got := collector.lastCall(); len(got) != 1 || got[0] != model.PlatformLeetCode {
		t.Fatalf("fetched %v, want only LC", got)
	}

	if n, err := svc.SyncStaleUsers(context.Background()); err != nil || n != 0 {
		t.Fatalf("third pass synced=%d err=%v", n, err)
	}
}

func TestSyncStaleUsersPicksUpChangedHandle(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Frances", model.PlatformHandles{Codeforces: "old"})
	collector := cfAndGitHub()
	svc := env.syncService(collector)

	if n, _ := svc.SyncStaleUsers(context.Background()); n != 1 {
		t.Fatalf("first pass synced=%d", n)
	}
	if err := env.users.UpdateHandles(user.ID, model.PlatformHandles{Codeforces: "new"}); err != nil {
		t.Fatalf("UpdateHandles: %v", err)
	}
	if n, _ := svc.SyncStaleUsers(context.Background()); n != 1 {
		t.Fatalf("changed handle pass synced=%d", n)
	}
	if n, _ := svc.SyncStaleUsers(context.Background()); n != 0 {
		t.Fatalf("third pass synced=%d", n)
	}
}

func TestSyncStaleUsersIgnoresRemovedHandle(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Hedy", model.PlatformHandles{Codeforces: "hedy", LeetCode: "hedy_lc"})
	collector := cfAndGitHub()
	svc := env.syncService(collector)

	if n, _ := svc.SyncStaleUsers(context.Background()); n != 1 {
		t.Fatalf("first pass synced=%d", n)
	}
	if err := env.users.UpdateHandles(user.ID, model.PlatformHandles{Codeforces: "hedy"}); err != nil {
		t.Fatalf("UpdateHandles: %v", err)
	}

	later := testNow.Add(25 * time.Hour)
	svc.now = func() time.Time { return later }

	var passes []int
	for i := 0; i < 3; i++ {
		n, err := svc.SyncStaleUsers(context.Background())
		if err != nil {
			t.Fatalf("SyncStaleUsers: %v", err)
		}
		passes = append(passes, n)
	}
	if passes[0] != 1 || passes[1] != 0 || passes[2] != 0 {
		t.Fatalf("passes=%v want [1 0 0]", passes)
	}
	if got := collector.lastCall(); len(got) != 1 || got[0] != model.PlatformCodeforces {
		t.Fatalf("fetched %v, want only CF", got)
	}
	if collector.callCount() != 2 {
		t.Fatalf("calls=%d want 2", collector.callCount())
	}
}
