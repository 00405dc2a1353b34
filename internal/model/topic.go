package model

// Verdicts counted as solved
const (
	VerdictOK = "OK"
	VerdictAC = "AC"
)

// TopicAttempt 一次按知识点归类的做题尝试
type TopicAttempt struct {
	Topic   string `json:"topic"`
	Verdict string `json:"verdict"`
	Rating  int    `json:"rating"`
}

func (a TopicAttempt) Solved() bool {
	return a.Verdict == VerdictOK || a.Verdict == VerdictAC
}

// ProblemAttempt 用户手动记录的做题尝试（例如 LeetCode 上的单题）
// swagger:model ProblemAttempt
type ProblemAttempt struct {
	BaseModel
	UserID  uint   `gorm:"index;not null" json:"userId"`
	Problem string `gorm:"size:200" json:"problem"`
	Topic   string `gorm:"size:100;not null" json:"topic"`
	Verdict string `gorm:"size:20;not null" json:"verdict"`
	Rating  int    `gorm:"default:0" json:"rating"`
}

func (ProblemAttempt) TableName() string {
	return "problem_attempts"
}

func (p ProblemAttempt) ToTopicAttempt() TopicAttempt {
	return TopicAttempt{Topic: p.Topic, Verdict: p.Verdict, Rating: p.Rating}
}

// TopicStat 每个 (用户, 知识点) 的统计；始终满足 Solved <= Attempts
// swagger:model TopicStat
type TopicStat struct {
	Topic     string  `json:"topic"`
	Attempts  int     `json:"attempts"`
	Solved    int     `json:"solved"`
	AvgRating float64 `json:"avgRating"`
}

// SuccessRate 百分比，0..100
func (t TopicStat) SuccessRate() float64 {
	if t.Attempts == 0 {
		return 0
	}
	return float64(t.Solved) / float64(t.Attempts) * 100
}

type TopicClass string

const (
	TopicWeak    TopicClass = "weak"
	TopicStrong  TopicClass = "strong"
	TopicNeutral TopicClass = "neutral"
)
