package recommend

import "devtrack_backend/internal/model"

func cfProblem(contest int, index, name, topic string, rating int) model.ProblemBankEntry {
	return model.ProblemBankEntry{
		Name:       name,
		Link:       "https://codeforces.com/problemset/problem/" + itoa(contest) + "/" + index,
		Topic:      topic,
		Rating:     rating,
		Difficulty: DifficultyFor(rating),
	}
}

// DifficultyFor 按 Codeforces 难度分粗分三档
func DifficultyFor(rating int) string {
	switch {
	case rating <= 1000:
		return "Easy"
	case rating <= 1600:
		return "Medium"
	}
	return "Hard"
}

// StarterProblems 题库为空时的兜底题目，顺序固定
var StarterProblems = []model.ProblemBankEntry{
	cfProblem(4, "A", "Watermelon", "math", 800),
	cfProblem(71, "A", "Way Too Long Words", "strings", 800),
	cfProblem(158, "A", "Next Round", "implementation", 800),
}

// DefaultBank 内置题库，主题使用 Codeforces 的 tag 名称
var DefaultBank = []model.ProblemBankEntry{
	cfProblem(4, "A", "Watermelon", "math", 800),
	cfProblem(71, "A", "Way Too Long Words", "strings", 800),
	cfProblem(158, "A", "Next Round", "implementation", 800),
	cfProblem(231, "A", "Team", "greedy", 800),
	cfProblem(282, "A", "Bit++", "implementation", 800),
	cfProblem(339, "A", "Helpful Maths", "sortings", 800),
	cfProblem(546, "A", "Soldier and Bananas", "math", 800),
	cfProblem(1360, "B", "Honest Coach", "sortings", 800),
	cfProblem(266, "B", "Queue at the School", "implementation", 800),
	cfProblem(115, "A", "Party", "trees", 900),
	cfProblem(26, "A", "Almost Prime", "number theory", 900),
	cfProblem(1, "A", "Theatre Square", "math", 1000),
	cfProblem(706, "B", "Interesting drink", "binary search", 1100),
	cfProblem(1335, "C", "Two Teams Composing", "greedy", 1100),
	cfProblem(467, "B", "Fedor and New Game", "bitmasks", 1100),
	cfProblem(1343, "C", "Alternating Subsequence", "two pointers", 1200),
	cfProblem(1352, "C", "K-th Not Divisible by n", "binary search", 1200),
	cfProblem(1472, "D", "Even-Odd Game", "games", 1200),
	cfProblem(189, "A", "Cut Ribbon", "dp", 1300),
	cfProblem(230, "B", "T-primes", "number theory", 1300),
	cfProblem(451, "B", "Sort the Array", "sortings", 1300),
	cfProblem(1249, "B2", "Books Exchange (hard version)", "dsu", 1300),
	cfProblem(1538, "C", "Number of Pairs", "two pointers", 1300),
	cfProblem(1360, "E", "Polygon", "graphs", 1300),
	cfProblem(279, "B", "Books", "two pointers", 1400),
	cfProblem(1324, "D", "Pair of Topics", "binary search", 1400),
	cfProblem(1201, "C", "Maximum Median", "binary search", 1400),
	cfProblem(520, "B", "Two Buttons", "graphs", 1400),
	cfProblem(1095, "C", "Powers Of Two", "bitmasks", 1400),
	cfProblem(1195, "C", "Basketball Exercise", "dp", 1400),
	cfProblem(1520, "E", "Arranging The Sheep", "greedy", 1400),
	cfProblem(1559, "D1", "Mocha and Diana (Easy Version)", "dsu", 1400),
	cfProblem(455, "A", "Boredom", "dp", 1500),
	cfProblem(166, "E", "Tetrahedron", "dp", 1500),
	cfProblem(580, "C", "Kefa and Park", "trees", 1500),
	cfProblem(510, "C", "Fox And Names", "graphs", 1600),
	cfProblem(1029, "C", "Maximal Intersection", "greedy", 1600),
	cfProblem(1398, "C", "Good Subarrays", "data structures", 1600),
	cfProblem(1353, "D", "Constructing the Array", "data structures", 1600),
	cfProblem(118, "D", "Caesar's Legions", "dp", 1700),
	cfProblem(474, "D", "Flowers", "dp", 1700),
	cfProblem(1037, "D", "Valid BFS?", "graphs", 1700),
	cfProblem(339, "D", "Xenia and Bit Operations", "data structures", 1700),
	cfProblem(20, "C", "Dijkstra?", "shortest paths", 1900),
	cfProblem(380, "C", "Sereja and Brackets", "data structures", 2000),
}
