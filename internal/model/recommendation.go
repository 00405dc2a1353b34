package model

type RecommendationType string

const (
	RecommendationDSA        RecommendationType = "dsa"
	RecommendationWebDev     RecommendationType = "webdev"
	RecommendationOpenSource RecommendationType = "opensource"
)

type RecommendationContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Topic       string `json:"topic"`
	Difficulty  string `json:"difficulty"`
}

// swagger:model Recommendation
type Recommendation struct {
	Type    RecommendationType    `json:"type"`
	Content RecommendationContent `json:"content"`
}

type RecommendationSet struct {
	ActiveTopic     string           `json:"activeTopic,omitempty"`
	DSAProblems     []Recommendation `json:"dsaProblems"`
	WebProjects     []Recommendation `json:"webProjects"`
	OpenSourceItems []Recommendation `json:"openSourceItems"`
}

// All 按 dsa / webdev / opensource 的顺序展开
func (s RecommendationSet) All() []Recommendation {
	out := make([]Recommendation, 0, len(s.DSAProblems)+len(s.WebProjects)+len(s.OpenSourceItems))
	out = append(out, s.DSAProblems...)
	out = append(out, s.WebProjects...)
	out = append(out, s.OpenSourceItems...)
	return out
}
