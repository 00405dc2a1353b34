package model

import "strings"

// RoadmapTopics 固定的学习路线，顺序即展示顺序
var RoadmapTopics = []string{
	"HTML & CSS Basics",
	"JavaScript Fundamentals",
	"DOM Manipulation",
	"Fetch API & Async JS",
	"Git & GitHub",
	"React Basics",
	"React Hooks",
	"Arrays & Strings",
	"Sorting & Searching",
	"Recursion & Backtracking",
	"Trees & Graphs",
	"Dynamic Programming",
	"System Design Basics",
}

// CanonicalRoadmapTopic 忽略大小写匹配路线节点，未知节点返回空串
func CanonicalRoadmapTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	for _, t := range RoadmapTopics {
		if strings.EqualFold(t, topic) {
			return t
		}
	}
	return ""
}

// RoadmapProgress 用户在某个路线节点上的完成度（0..100）
// swagger:model RoadmapProgress
type RoadmapProgress struct {
	BaseModel
	UserID   uint   `gorm:"not null;uniqueIndex:idx_roadmap_user_topic" json:"userId"`
	Topic    string `gorm:"size:100;not null;uniqueIndex:idx_roadmap_user_topic" json:"topic"`
	Progress int    `gorm:"default:0" json:"progress"`
}

func (RoadmapProgress) TableName() string {
	return "roadmap_progress"
}

type RoadmapCompletion struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}
