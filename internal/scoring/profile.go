package scoring

import (
	"devtrack_backend/internal/model"
	"math"
	"sort"
	"time"
)

// ProfileInput 计算技能画像所需的全部输入；任何字段缺失都按零贡献处理
type ProfileInput struct {
	Codeforces *model.ExternalStatSnapshot
	LeetCode   *model.ExternalStatSnapshot
	GitHub     *model.ExternalStatSnapshot
	Activity   ActivityMap
	Topics     []model.TopicStat
	Roadmap    model.RoadmapCompletion
	// 每条学习记录一个日期（不去重），用于连续天数和学习速度
	SessionDates []string
}

const (
	consistencyWindowDays = 30
	velocityWindowDays    = 14
)

// ComputeProfile 确定性、无副作用
func ComputeProfile(in ProfileInput, now time.Time) model.SkillProfile {
	dsa := DSAScore(in.Codeforces, in.LeetCode, in.Roadmap)
	dev := DevelopmentScore(in.GitHub)
	consistency := ConsistencyScore(in.Activity, now)
	weak, strong := ClassifyTopics(in.Topics)

	return model.SkillProfile{
		DSAScore:         dsa,
		DevelopmentScore: dev,
		ConsistencyScore: consistency,
		OverallScore:     OverallScore(dsa, dev, consistency),
		WeakTopics:       weak,
		StrongTopics:     strong,
		StudyStreakDays:  StudyStreak(in.SessionDates, now),
		LearningVelocity: LearningVelocity(in.SessionDates, now),
	}
}

// DSAScore = min(100, cfPoints + lcPoints + roadmapPoints)
func DSAScore(cf, lc *model.ExternalStatSnapshot, roadmap model.RoadmapCompletion) int {
	cfPoints := 0
	if cf != nil && cf.Rating != nil {
		cfPoints = scaled(float64(*cf.Rating), 3500, 40)
	}

	lcPoints := 0
	if lc != nil {
		lcPoints = scaled(float64(lc.SolvedCount), 3000, 35)
	}

	roadmapPoints := 0
	if roadmap.Total > 0 {
		completed := clampInt(roadmap.Completed, 0, roadmap.Total)
		roadmapPoints = roundInt(float64(completed) / float64(roadmap.Total) * 25)
	}

	return clampInt(cfPoints+lcPoints+roadmapPoints, 0, 100)
}

// DevelopmentScore 没有 GitHub 快照时为 0
func DevelopmentScore(gh *model.ExternalStatSnapshot) int {
	if gh == nil || gh.GitHub == nil {
		return 0
	}
	d := gh.GitHub
	repoPts := scaled(float64(d.PublicRepos), 50, 30)
	commitPts := scaled(float64(d.CommitsLast30Days), 100, 40)
	starPts := scaled(float64(d.TotalStars), 200, 30)
	return clampInt(repoPts+commitPts+starPts, 0, 100)
}

// ConsistencyScore 最近 30 天内 minutesStudied > 0 的天数占比
func ConsistencyScore(activity ActivityMap, now time.Time) int {
	active := 0
	for i := 0; i < consistencyWindowDays; i++ {
		date := now.AddDate(0, 0, -i).Format(model.DateLayout)
		if rec, ok := activity[date]; ok && rec.MinutesStudied > 0 {
			active++
		}
	}
	return roundInt(float64(active) / consistencyWindowDays * 100)
}

func OverallScore(dsa, dev, consistency int) int {
	return clampInt(roundInt(float64(dsa)*0.4+float64(dev)*0.3+float64(consistency)*0.3), 0, 100)
}

// StudyStreak 按日期倒序遍历去重后的学习日期。
// 第一段间隔（今天到最近一次学习）允许 0 或 1 天，之后每一步必须恰好相差 1 天。
func StudyStreak(sessionDates []string, now time.Time) int {
	days := uniqueDays(sessionDates)
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := dayOf(now)
	first := daysBetween(days[0], today)
	if first < 0 || first > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// LearningVelocity 最近 14 天的学习次数折算为每周次数，保留一位小数
func LearningVelocity(sessionDates []string, now time.Time) float64 {
	from := now.AddDate(0, 0, -(velocityWindowDays - 1)).Format(model.DateLayout)
	to := now.Format(model.DateLayout)

	count := 0
	for _, d := range sessionDates {
		if d >= from && d <= to {
			count++
		}
	}
	return math.Round(float64(count)/2*10) / 10
}

// scaled = min(limit, round(value/full*limit))，负值按 0 处理
func scaled(value, full float64, limit int) int {
	if value <= 0 {
		return 0
	}
	pts := roundInt(value / full * float64(limit))
	if pts > limit {
		return limit
	}
	return pts
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func uniqueDays(dates []string) []time.Time {
	seen := make(map[string]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, t)
	}
	return out
}

// dayOf 取 t 所在时区的日历日期，统一为 UTC 零点便于相减
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(earlier, later time.Time) int {
	return int(math.Round(later.Sub(earlier).Hours() / 24))
}
