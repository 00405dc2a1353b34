package model

import "time"

// TopicBreakdown 知识点统计及分类结果
type TopicBreakdown struct {
	Stats        []TopicStat `json:"stats"`
	WeakTopics   []string    `json:"weakTopics"`
	StrongTopics []string    `json:"strongTopics"`
	ActiveTopic  string      `json:"activeTopic"`
}

type RoadmapItem struct {
	Topic    string `json:"topic"`
	Progress int    `json:"progress"`
}

// RoadmapView 固定顺序的完整路线，未记录的节点进度为 0
type RoadmapView struct {
	Items      []RoadmapItem     `json:"items"`
	Completion RoadmapCompletion `json:"completion"`
}

// SkillProfileView 画像及其计算时间；ComputedAt 为空表示尚未同步、即时计算得出
type SkillProfileView struct {
	SkillProfile
	ComputedAt *time.Time `json:"computedAt,omitempty"`
}
