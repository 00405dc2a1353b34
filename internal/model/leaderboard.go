package model

// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	UserID           uint   `json:"userId"`
	Name             string `json:"name"`
	OverallScore     int    `json:"overallScore"`
	DSAScore         int    `json:"dsaScore"`
	DevelopmentScore int    `json:"developmentScore"`
	ConsistencyScore int    `json:"consistencyScore"`
	StudyStreakDays  int    `json:"studyStreakDays"`
}
