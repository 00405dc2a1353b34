package coaching

import (
	"context"
	"devtrack_backend/internal/config"
	"devtrack_backend/internal/model"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

type stubOracle struct {
	reply  string
	err    error
	delay  time.Duration
	prompt string
}

func (s *stubOracle) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.prompt = prompt
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

var sampleProfile = model.SkillProfile{
	DSAScore:         40,
	DevelopmentScore: 20,
	ConsistencyScore: 50,
	OverallScore:     37,
	WeakTopics:       []string{"graphs", "dp"},
	StrongTopics:     []string{"math"},
	StudyStreakDays:  4,
	LearningVelocity: 1.5,
}

func TestAnalyzeValidReply(t *testing.T) {
	oracle := &stubOracle{reply: "```json\n" + `{
		"weakTopics": ["graphs"],
		"strongTopics": ["math", " "],
		"priorityTopics": [{"topic": "graphs", "reason": "20% success", "priority": "HIGH"}],
		"dailyPlan": ["a", "b", "c", "d"],
		"motivationalInsight": "Keep going"
	}` + "\n```"}

	got := NewCoach(oracle, time.Second).Analyze(context.Background(), Summary{Profile: sampleProfile})

	if got.Fallback {
		t.Fatalf("unexpected fallback: %+v", got)
	}
	if !reflect.DeepEqual(got.StrongTopics, []string{"math"}) {
		t.Fatalf("strong=%v", got.StrongTopics)
	}
	if got.PriorityTopics[0].Priority != "high" {
		t.Fatalf("priority=%q", got.PriorityTopics[0].Priority)
	}
	if !reflect.DeepEqual(got.DailyPlan, []string{"a", "b", "c"}) {
		t.Fatalf("plan=%v", got.DailyPlan)
	}
	if !strings.Contains(oracle.prompt, "Weak topics: graphs, dp.") {
		t.Fatalf("prompt missing weak topics:\n%s", oracle.prompt)
	}
}

func TestAnalyzeOracleFailureFallsBack(t *testing.T) {
	cases := []struct {
		name   string
		oracle Oracle
	}{
		{"nil oracle", nil},
		{"error", &stubOracle{err: errors.New("boom")}},
		{"not configured", &stubOracle{err: ErrOracleNotConfigured}},
		{"garbage", &stubOracle{reply: "I think you should study more."}},
		{"timeout", &stubOracle{delay: time.Second, reply: `{}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewCoach(tc.oracle, 20*time.Millisecond).Analyze(context.Background(), Summary{Profile: sampleProfile})
			if !got.Fallback {
				t.Fatalf("expected fallback")
			}
			if !reflect.DeepEqual(got.DailyPlan, DefaultPlan) {
				t.Fatalf("plan=%v", got.DailyPlan)
			}
			if !reflect.DeepEqual(got.WeakTopics, sampleProfile.WeakTopics) {
				t.Fatalf("weak=%v", got.WeakTopics)
			}
			if len(got.PriorityTopics) != 2 || got.PriorityTopics[0].Priority != "high" {
				t.Fatalf("priorities=%+v", got.PriorityTopics)
			}
			if got.MotivationalInsight == "" {
				t.Fatalf("empty insight")
			}
		})
	}
}

func TestParseAnalysisFillsMissingFields(t *testing.T) {
	got, ok := ParseAnalysis(`{"dailyPlan": ["only one"], "weakTopics": "not a list"}`, sampleProfile)
	if !ok {
		t.Fatalf("expected parsable reply")
	}
	if !got.Fallback {
		t.Fatalf("defaulted fields must set the fallback flag")
	}
	want := []string{"only one", DefaultPlan[1], DefaultPlan[2]}
	if !reflect.DeepEqual(got.DailyPlan, want) {
		t.Fatalf("plan=%v", got.DailyPlan)
	}
	if !reflect.DeepEqual(got.WeakTopics, sampleProfile.WeakTopics) {
		t.Fatalf("weak=%v", got.WeakTopics)
	}
	if got.MotivationalInsight != DefaultInsight {
		t.Fatalf("insight=%q", got.MotivationalInsight)
	}
}

func TestFallbackDoesNotAliasProfile(t *testing.T) {
	p := model.SkillProfile{WeakTopics: []string{"dp"}}
	a := Fallback(p)
	a.WeakTopics[0] = "changed"
	a.DailyPlan[0] = "changed"
	if p.WeakTopics[0] != "dp" || DefaultPlan[0] == "changed" {
		t.Fatalf("fallback aliased shared slices")
	}
}

func TestBuildPromptLimitsSessions(t *testing.T) {
	var sessions []model.StudySession
	day := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		sessions = append(sessions, model.StudySession{StudiedAt: day.AddDate(0, 0, i), Minutes: 30})
	}
	prompt := BuildPrompt(Summary{Profile: sampleProfile, RecentSessions: sessions})
	if n := strings.Count(prompt, "min on general"); n != maxSummarySessions {
		t.Fatalf("sessions in prompt=%d", n)
	}
}

func TestBuildPromptVelocityUnit(t *testing.T) {
	prompt := BuildPrompt(Summary{Profile: sampleProfile})
	if !strings.Contains(prompt, "Learning velocity: 1.5 sessions per week") {
		t.Fatalf("prompt=%q", prompt)
	}
}

func TestOpenAIOracleComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("authorization=%q", r.Header.Get("Authorization"))
		}
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != "m" || len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("request=%+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"dailyPlan\":[]}"}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAIOracleWithClient(config.AIConfig{}, srv.Client())
	if _, err := o.Complete(context.Background(), "s", "p"); !errors.Is(err, ErrOracleNotConfigured) {
		t.Fatalf("err=%v", err)
	}

	o.UpdateConfig(config.AIConfig{BaseURL: srv.URL + "/v1/", APIKey: "k", Model: "m"})
	reply, err := o.Complete(context.Background(), "s", "p")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != `{"dailyPlan":[]}` {
		t.Fatalf("reply=%q", reply)
	}
}

func TestOpenAIOracleErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	o := NewOpenAIOracleWithClient(config.AIConfig{BaseURL: srv.URL, APIKey: "k"}, srv.Client())
	if _, err := o.Complete(context.Background(), "s", "p"); err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("err=%v", err)
	}
}
