package model

type PriorityTopic struct {
	Topic    string `json:"topic"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
}

// CoachingAnalysis AI 教练返回的结构化建议
// swagger:model CoachingAnalysis
type CoachingAnalysis struct {
	WeakTopics          []string        `json:"weakTopics"`
	StrongTopics        []string        `json:"strongTopics"`
	PriorityTopics      []PriorityTopic `json:"priorityTopics"`
	DailyPlan           []string        `json:"dailyPlan"`
	MotivationalInsight string          `json:"motivationalInsight"`
	Fallback            bool            `json:"fallback"`
}
