package model

// ProblemBankEntry 静态题库条目，运行时只读
type ProblemBankEntry struct {
	Name       string `json:"name"`
	Link       string `json:"link"`
	Topic      string `json:"topic"`
	Rating     int    `json:"rating"`
	Difficulty string `json:"difficulty"`
}
