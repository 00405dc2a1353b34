// Package coaching 连接外部 AI 教练：输出画像摘要，输入结构化建议。
// 教练不可用或返回内容不合法时一律退化为默认建议，调用方永远拿到完整结果。
package coaching

import (
	"context"
	"devtrack_backend/internal/model"
	"devtrack_backend/pkg/logger"
	"devtrack_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	PlanLength      = 3
	maxPriorities   = 5
	DefaultInsight  = "Small, steady sessions beat occasional marathons. Show up today and the streak takes care of itself."
	defaultReason   = "Lowest success rate among your recent attempts"
	DefaultDeadline = 20 * time.Second
)

// DefaultPlan 教练不可用时的固定三步计划
var DefaultPlan = []string{
	"Solve one problem from your weakest topic without looking at hints.",
	"Spend 30 minutes on the current roadmap topic and write down one thing you learned.",
	"Review a solved problem and re-implement it from memory.",
}

var validPriorities = map[string]struct{}{"high": {}, "medium": {}, "low": {}}

// rawAnalysis 教练返回的原始结构，字段类型宽松，逐项校验
type rawAnalysis struct {
	WeakTopics          json.RawMessage `json:"weakTopics"`
	StrongTopics        json.RawMessage `json:"strongTopics"`
	PriorityTopics      json.RawMessage `json:"priorityTopics"`
	DailyPlan           json.RawMessage `json:"dailyPlan"`
	MotivationalInsight json.RawMessage `json:"motivationalInsight"`
}

type Coach struct {
	oracle   Oracle
	deadline time.Duration
}

func NewCoach(oracle Oracle, deadline time.Duration) *Coach {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Coach{oracle: oracle, deadline: deadline}
}

// Analyze 永远返回完整的分析结果；Fallback 标记表示结果来自默认值
func (c *Coach) Analyze(ctx context.Context, s Summary) model.CoachingAnalysis {
	if c == nil || c.oracle == nil {
		monitoring.CoachingTotal.WithLabelValues("fallback").Inc()
		return Fallback(s.Profile)
	}

	ctx, cancel := context.WithTimeout(ctx, c.deadline)
	defer cancel()

	reply, err := c.oracle.Complete(ctx, systemPrompt, BuildPrompt(s))
	if err != nil {
		if !errors.Is(err, ErrOracleNotConfigured) {
			logger.Log.Warn("AI 教练调用失败，使用默认建议", zap.Error(err))
		}
		monitoring.CoachingTotal.WithLabelValues("fallback").Inc()
		return Fallback(s.Profile)
	}

	analysis, ok := ParseAnalysis(reply, s.Profile)
	if !ok {
		logger.Log.Warn("AI 教练返回内容无法解析，使用默认建议", zap.Int("length", len(reply)))
		monitoring.CoachingTotal.WithLabelValues("fallback").Inc()
		return analysis
	}
	monitoring.CoachingTotal.WithLabelValues("oracle").Inc()
	return analysis
}

// Fallback 只依赖本地画像生成的默认分析
func Fallback(p model.SkillProfile) model.CoachingAnalysis {
	return model.CoachingAnalysis{
		WeakTopics:          copyStrings(p.WeakTopics),
		StrongTopics:        copyStrings(p.StrongTopics),
		PriorityTopics:      defaultPriorities(p.WeakTopics),
		DailyPlan:           copyStrings(DefaultPlan),
		MotivationalInsight: DefaultInsight,
		Fallback:            true,
	}
}

// ParseAnalysis 逐字段校验教练返回的 JSON，缺失或非法的字段用默认值替换。
// 第二个返回值表示回复是否为可解析的 JSON 对象。
func ParseAnalysis(reply string, p model.SkillProfile) (model.CoachingAnalysis, bool) {
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &raw); err != nil {
		return Fallback(p), false
	}

	out := model.CoachingAnalysis{}
	defaulted := false

	if v, ok := stringList(raw.WeakTopics); ok {
		out.WeakTopics = v
	} else {
		out.WeakTopics = copyStrings(p.WeakTopics)
		defaulted = true
	}
	if v, ok := stringList(raw.StrongTopics); ok {
		out.StrongTopics = v
	} else {
		out.StrongTopics = copyStrings(p.StrongTopics)
		defaulted = true
	}
	if v, ok := priorityList(raw.PriorityTopics); ok {
		out.PriorityTopics = v
	} else {
		out.PriorityTopics = defaultPriorities(out.WeakTopics)
		defaulted = true
	}

	plan, ok := stringList(raw.DailyPlan)
	if !ok {
		plan = nil
		defaulted = true
	}
	out.DailyPlan = normalizePlan(plan)

	var insight string
	if err := json.Unmarshal(raw.MotivationalInsight, &insight); err != nil || strings.TrimSpace(insight) == "" {
		insight = DefaultInsight
		defaulted = true
	}
	out.MotivationalInsight = strings.TrimSpace(insight)
	out.Fallback = defaulted
	return out, true
}

// normalizePlan 截断或用默认计划补齐到 3 项
func normalizePlan(plan []string) []string {
	out := make([]string, 0, PlanLength)
	for _, item := range plan {
		if len(out) == PlanLength {
			break
		}
		out = append(out, item)
	}
	for i := len(out); i < PlanLength; i++ {
		out = append(out, DefaultPlan[i])
	}
	return out
}

func stringList(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

func priorityList(raw json.RawMessage) ([]model.PriorityTopic, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var items []model.PriorityTopic
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]model.PriorityTopic, 0, len(items))
	for _, it := range items {
		it.Topic = strings.TrimSpace(it.Topic)
		if it.Topic == "" {
			continue
		}
		it.Priority = strings.ToLower(strings.TrimSpace(it.Priority))
		if _, ok := validPriorities[it.Priority]; !ok {
			it.Priority = "medium"
		}
		if strings.TrimSpace(it.Reason) == "" {
			it.Reason = defaultReason
		}
		out = append(out, it)
		if len(out) == maxPriorities {
			break
		}
	}
	return out, true
}

func defaultPriorities(weak []string) []model.PriorityTopic {
	out := make([]model.PriorityTopic, 0, len(weak))
	for i, t := range weak {
		if i == maxPriorities {
			break
		}
		priority := "medium"
		if i == 0 {
			priority = "high"
		}
		out = append(out, model.PriorityTopic{Topic: t, Reason: defaultReason, Priority: priority})
	}
	return out
}

// stripCodeFence 去掉模型常见的 ```json 包裹
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
