package coaching

import (
	"devtrack_backend/internal/model"
	"fmt"
	"strings"
)

const maxSummarySessions = 10

const systemPrompt = "You are a programming study coach. Reply with a single JSON object with the keys " +
	"weakTopics (string array), strongTopics (string array), " +
	"priorityTopics (array of {topic, reason, priority} where priority is high, medium or low), " +
	"dailyPlan (exactly 3 short strings) and motivationalInsight (string). Do not add any other text."

// Summary 发送给教练的输入
type Summary struct {
	Profile        model.SkillProfile
	Topics         []model.TopicStat
	RecentSessions []model.StudySession
}

// BuildPrompt 把技能画像序列化为纯文本摘要
func BuildPrompt(s Summary) string {
	var b strings.Builder
	p := s.Profile
	fmt.Fprintf(&b, "Scores (0-100): overall %d, DSA %d, development %d, consistency %d.\n",
		p.OverallScore, p.DSAScore, p.DevelopmentScore, p.ConsistencyScore)
	fmt.Fprintf(&b, "Study streak: %d days. Learning velocity: %.1f sessions per week over the last 2 weeks.\n",
		p.StudyStreakDays, p.LearningVelocity)
	fmt.Fprintf(&b, "Weak topics: %s.\n", listOrNone(p.WeakTopics))
	fmt.Fprintf(&b, "Strong topics: %s.\n", listOrNone(p.StrongTopics))

	if len(s.Topics) > 0 {
		b.WriteString("Topic statistics:\n")
		for _, st := range s.Topics {
			fmt.Fprintf(&b, "- %s: %d/%d solved (%.0f%%), avg rating %.0f\n",
				st.Topic, st.Solved, st.Attempts, st.SuccessRate(), st.AvgRating)
		}
	}

	sessions := s.RecentSessions
	if len(sessions) > maxSummarySessions {
		sessions = sessions[:maxSummarySessions]
	}
	if len(sessions) == 0 {
		b.WriteString("Recent sessions: none.\n")
	} else {
		b.WriteString("Recent sessions:\n")
		for _, ss := range sessions {
			topic := ss.Topic
			if topic == "" {
				topic = "general"
			}
			fmt.Fprintf(&b, "- %s: %d min on %s\n", ss.StudiedAt.Format(model.DateLayout), ss.Minutes, topic)
		}
	}
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
