// Package recommend 根据技能画像从静态题库与规则表中挑选推荐内容。
// 所有结果都是确定性的，相同输入总是得到相同输出。
package recommend

import (
	"devtrack_backend/internal/model"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultRating 没有 CF 分数时按新手处理
	DefaultRating    = 800
	DefaultDSALimit  = 3
	MaxDSALimit      = 6
	DefaultWebLimit  = 3
	maxWeakSelection = 3
)

// 逐级放宽的分数窗口，最后一级为整个题库
var ratingBands = []int{100, 400}

// 算法类路线节点对应的题库 tag；其余节点不影响题目选择
var roadmapTopicTags = map[string][]string{
	"arrays & strings":         {"strings", "two pointers"},
	"sorting & searching":      {"sortings", "binary search"},
	"recursion & backtracking": {"bitmasks", "dp"},
	"trees & graphs":           {"trees", "graphs", "shortest paths"},
	"dynamic programming":      {"dp"},
}

type Input struct {
	Profile     model.SkillProfile
	WeakTopics  []string
	ActiveTopic string
	CFRating    *int
	PublicRepos int
	Roadmap     []model.RoadmapProgress
	Limit       int
}

type Selector struct {
	bank []model.ProblemBankEntry
}

func NewSelector(bank []model.ProblemBankEntry) *Selector {
	return &Selector{bank: bank}
}

func (s *Selector) Select(in Input) model.RecommendationSet {
	rating := DefaultRating
	if in.CFRating != nil && *in.CFRating > 0 {
		rating = *in.CFRating
	}
	weak := in.WeakTopics
	if len(weak) == 0 {
		weak = in.Profile.WeakTopics
	}

	return model.RecommendationSet{
		ActiveTopic:     in.ActiveTopic,
		DSAProblems:     s.DSAProblems(rating, weak, in.ActiveTopic, in.Limit),
		WebProjects:     WebProjects(in.Roadmap, DefaultWebLimit),
		OpenSourceItems: OpenSourceItems(in.PublicRepos, rating),
	}
}

// DSAProblems 重点题目优先（最多 3 道）：活跃主题先占一个名额，其余给弱项；
// 再用窗口内其他题目补足 limit
func (s *Selector) DSAProblems(rating int, weakTopics []string, activeTopic string, limit int) []model.Recommendation {
	limit = NormalizeLimit(limit)

	pool := s.candidates(rating)
	if len(pool) == 0 {
		return toRecommendations(StarterProblems)
	}

	weak := topicSet(weakTopics)
	active := topicSet(activeTags(activeTopic))

	picked := make([]model.ProblemBankEntry, 0, limit)
	used := make([]bool, len(pool))
	focusLimit := maxWeakSelection
	if focusLimit > limit {
		focusLimit = limit
	}
	if !overlaps(active, weak) {
		for i, p := range pool {
			if _, ok := active[strings.ToLower(p.Topic)]; ok {
				picked = append(picked, p)
				used[i] = true
				break
			}
		}
	}
	for i, p := range pool {
		if len(picked) >= focusLimit {
			break
		}
		if _, ok := weak[strings.ToLower(p.Topic)]; ok && !used[i] {
			picked = append(picked, p)
			used[i] = true
		}
	}
	for i, p := range pool {
		if len(picked) == limit {
			break
		}
		if !used[i] {
			picked = append(picked, p)
		}
	}
	return toRecommendations(picked)
}

// activeTags 路线节点换成题库 tag，知识点本身原样返回
func activeTags(topic string) []string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return nil
	}
	if tags, ok := roadmapTopicTags[topic]; ok {
		return tags
	}
	if model.CanonicalRoadmapTopic(topic) != "" {
		return nil
	}
	return []string{topic}
}

func topicSet(topics []string) map[string]struct{} {
	set := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

func overlaps(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

// candidates 返回按名称排序的候选集，题库非空时不会为空
func (s *Selector) candidates(rating int) []model.ProblemBankEntry {
	var pool []model.ProblemBankEntry
	for _, band := range ratingBands {
		pool = pool[:0]
		for _, p := range s.bank {
			if abs(p.Rating-rating) <= band {
				pool = append(pool, p)
			}
		}
		if len(pool) > 0 {
			break
		}
	}
	if len(pool) == 0 {
		pool = append(pool, s.bank...)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Name != pool[j].Name {
			return pool[i].Name < pool[j].Name
		}
		return pool[i].Link < pool[j].Link
	})
	return pool
}

// NormalizeLimit 只允许 3 或 6
func NormalizeLimit(limit int) int {
	if limit > DefaultDSALimit {
		return MaxDSALimit
	}
	return DefaultDSALimit
}

func toRecommendations(entries []model.ProblemBankEntry) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.Recommendation{
			Type: model.RecommendationDSA,
			Content: model.RecommendationContent{
				Title:       e.Name,
				Description: "Codeforces " + e.Topic + " problem rated " + itoa(e.Rating),
				Link:        e.Link,
				Topic:       e.Topic,
				Difficulty:  e.Difficulty,
			},
		})
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func itoa(v int) string { return strconv.Itoa(v) }
