package scoring

import (
	"devtrack_backend/internal/model"
	"strings"
)

// 弱项/强项判定阈值
const (
	weakRateCeiling = 50.0
	strongRateFloor = 80.0
	ratingThreshold = 1200.0
)

// AggregateTopics 按知识点汇总尝试记录，结果按首次出现的顺序返回。
// 通过的尝试以增量均值更新 AvgRating：avg' = (avg*(n-1) + r) / n，失败不会重置均值。
func AggregateTopics(attempts []model.TopicAttempt) []model.TopicStat {
	index := make(map[string]int)
	stats := make([]model.TopicStat, 0)

	for _, a := range attempts {
		topic := strings.TrimSpace(a.Topic)
		if topic == "" {
			continue
		}
		i, ok := index[topic]
		if !ok {
			i = len(stats)
			index[topic] = i
			stats = append(stats, model.TopicStat{Topic: topic})
		}

		st := &stats[i]
		st.Attempts++
		if a.Solved() {
			st.Solved++
			rating := float64(a.Rating)
			if rating < 0 {
				rating = 0
			}
			n := float64(st.Solved)
			st.AvgRating = (st.AvgRating*(n-1) + rating) / n
		}
	}
	return stats
}

// ClassifyTopic 复合规则：
//
//	weak:   成功率 < 50%，或 50% <= 成功率 <= 80% 且平均难度 < 1200
//	strong: 成功率 > 80% 且平均难度 > 1200
//
// 其余为 neutral，两份列表互斥。
func ClassifyTopic(st model.TopicStat) model.TopicClass {
	if st.Attempts == 0 {
		return model.TopicNeutral
	}
	rate := st.SuccessRate()
	switch {
	case rate < weakRateCeiling:
		return model.TopicWeak
	case rate <= strongRateFloor && st.AvgRating < ratingThreshold:
		return model.TopicWeak
	case rate > strongRateFloor && st.AvgRating > ratingThreshold:
		return model.TopicStrong
	}
	return model.TopicNeutral
}

// ClassifyTopics 返回弱项与强项，保持输入顺序
func ClassifyTopics(stats []model.TopicStat) (weak, strong []string) {
	weak = []string{}
	strong = []string{}
	for _, st := range stats {
		switch ClassifyTopic(st) {
		case model.TopicWeak:
			weak = append(weak, st.Topic)
		case model.TopicStrong:
			strong = append(strong, st.Topic)
		}
	}
	return weak, strong
}

// ActiveTopic 推荐时关注的知识点：
// 优先取进行中（0 < progress < 100）完成度最高的路线节点；
// 否则取通过率最低的知识点，并列时取先出现的。
func ActiveTopic(roadmap []model.RoadmapProgress, stats []model.TopicStat) string {
	best := ""
	bestProgress := 0
	for _, r := range roadmap {
		if r.Progress > 0 && r.Progress < 100 && r.Progress > bestProgress {
			best = r.Topic
			bestProgress = r.Progress
		}
	}
	if best != "" {
		return best
	}

	worst := ""
	worstRatio := 2.0
	for _, st := range stats {
		if st.Attempts == 0 {
			continue
		}
		ratio := float64(st.Solved) / float64(st.Attempts)
		if ratio < worstRatio {
			worst = st.Topic
			worstRatio = ratio
		}
	}
	return worst
}
