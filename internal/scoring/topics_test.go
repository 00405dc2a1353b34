package scoring

import (
	"devtrack_backend/internal/model"
	"math"
	"testing"
)

func attempts(topic string, solvedRatings []int, failed int) []model.TopicAttempt {
	out := make([]model.TopicAttempt, 0, len(solvedRatings)+failed)
	for _, r := range solvedRatings {
		out = append(out, model.TopicAttempt{Topic: topic, Verdict: model.VerdictOK, Rating: r})
	}
	for i := 0; i < failed; i++ {
		out = append(out, model.TopicAttempt{Topic: topic, Verdict: "WRONG_ANSWER", Rating: 3000})
	}
	return out
}

func TestAggregateTopicsRunningMean(t *testing.T) {
	in := []model.TopicAttempt{
		{Topic: "DP", Verdict: model.VerdictOK, Rating: 1000},
		{Topic: "Graphs", Verdict: "WRONG_ANSWER", Rating: 2000},
		{Topic: "DP", Verdict: "TIME_LIMIT_EXCEEDED", Rating: 2400},
		{Topic: "DP", Verdict: model.VerdictAC, Rating: 1600},
		{Topic: "  ", Verdict: model.VerdictOK, Rating: 800},
	}

	stats := AggregateTopics(in)
	if len(stats) != 2 {
		t.Fatalf("topics: want=2 got=%d", len(stats))
	}
	if stats[0].Topic != "DP" || stats[1].Topic != "Graphs" {
		t.Fatalf("order: got=%s,%s", stats[0].Topic, stats[1].Topic)
	}
	dp := stats[0]
	if dp.Attempts != 3 || dp.Solved != 2 {
		t.Fatalf("DP counts: got=%+v", dp)
	}
	// 失败的尝试不影响均值
	if math.Abs(dp.AvgRating-1300) > 1e-9 {
		t.Fatalf("DP avg: want=1300 got=%v", dp.AvgRating)
	}
	if stats[1].Solved != 0 || stats[1].AvgRating != 0 {
		t.Fatalf("Graphs: got=%+v", stats[1])
	}
}

func TestAggregateTopicsSolvedNeverExceedsAttempts(t *testing.T) {
	verdicts := []string{"OK", "AC", "WRONG_ANSWER", "OK", "COMPILATION_ERROR", "AC", "OK"}
	topics := []string{"A", "B", "C"}
	var in []model.TopicAttempt
	for i := 0; i < 200; i++ {
		in = append(in, model.TopicAttempt{
			Topic:   topics[i%len(topics)],
			Verdict: verdicts[(i*7)%len(verdicts)],
			Rating:  800 + (i%10)*100,
		})
		for _, st := range AggregateTopics(in) {
			if st.Solved > st.Attempts {
				t.Fatalf("after %d attempts: %+v violates solved <= attempts", i+1, st)
			}
		}
	}
}

func TestClassifyTopic(t *testing.T) {
	tests := []struct {
		name string
		stat model.TopicStat
		want model.TopicClass
	}{
		{"graphs low rate is weak regardless of rating", model.TopicStat{Topic: "Graphs", Attempts: 5, Solved: 1, AvgRating: 2500}, model.TopicWeak},
		{"dp perfect rate high rating is strong", model.TopicStat{Topic: "DP", Attempts: 4, Solved: 4, AvgRating: 1400}, model.TopicStrong},
		{"middle band low rating is weak", model.TopicStat{Attempts: 10, Solved: 6, AvgRating: 1100}, model.TopicWeak},
		{"middle band high rating is neutral", model.TopicStat{Attempts: 10, Solved: 6, AvgRating: 1500}, model.TopicNeutral},
		{"exactly 80 percent low rating is weak", model.TopicStat{Attempts: 5, Solved: 4, AvgRating: 1000}, model.TopicWeak},
		{"high rate but rating at threshold is neutral", model.TopicStat{Attempts: 10, Solved: 9, AvgRating: 1200}, model.TopicNeutral},
		{"high rate low rating is neutral", model.TopicStat{Attempts: 10, Solved: 10, AvgRating: 900}, model.TopicNeutral},
		{"no attempts is neutral", model.TopicStat{}, model.TopicNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyTopic(tt.stat); got != tt.want {
				t.Fatalf("want=%s got=%s", tt.want, got)
			}
		})
	}
}

func TestClassifyTopicsDisjoint(t *testing.T) {
	var in []model.TopicAttempt
	in = append(in, attempts("Graphs", []int{1500}, 4)...)
	in = append(in, attempts("DP", []int{1300, 1400, 1500, 1400}, 0)...)
	in = append(in, attempts("Greedy", []int{800, 900, 1000}, 1)...)
	in = append(in, attempts("Math", []int{1600, 1700, 1800}, 1)...)

	weak, strong := ClassifyTopics(AggregateTopics(in))

	seen := make(map[string]bool)
	for _, w := range weak {
		seen[w] = true
	}
	for _, s := range strong {
		if seen[s] {
			t.Fatalf("%s is both weak and strong", s)
		}
	}
	if len(weak) != 2 || weak[0] != "Graphs" || weak[1] != "Greedy" {
		t.Fatalf("weak: got=%v", weak)
	}
	if len(strong) != 1 || strong[0] != "DP" {
		t.Fatalf("strong: got=%v", strong)
	}
}

func TestActiveTopic(t *testing.T) {
	stats := []model.TopicStat{
		{Topic: "Graphs", Attempts: 4, Solved: 1},
		{Topic: "DP", Attempts: 8, Solved: 2},
		{Topic: "Math", Attempts: 2, Solved: 2},
	}

	t.Run("prefers highest in-progress roadmap topic", func(t *testing.T) {
		roadmap := []model.RoadmapProgress{
			{Topic: "React Basics", Progress: 100},
			{Topic: "DOM Manipulation", Progress: 40},
			{Topic: "React Hooks", Progress: 70},
			{Topic: "Git & GitHub", Progress: 0},
		}
		if got := ActiveTopic(roadmap, stats); got != "React Hooks" {
			t.Fatalf("got=%q", got)
		}
	})

	t.Run("falls back to worst ratio first encountered", func(t *testing.T) {
		roadmap := []model.RoadmapProgress{{Topic: "React Basics", Progress: 100}}
		if got := ActiveTopic(roadmap, stats); got != "Graphs" {
			t.Fatalf("got=%q", got)
		}
	})

	t.Run("empty inputs", func(t *testing.T) {
		if got := ActiveTopic(nil, nil); got != "" {
			t.Fatalf("got=%q", got)
		}
	})
}
