package recommend

import (
	"devtrack_backend/internal/model"
	"strings"
)

type webProjectRule struct {
	keyword string
	project model.RecommendationContent
}

// 按路线关键字匹配的练手项目，顺序即优先级
var webProjectRules = []webProjectRule{
	{"hooks", model.RecommendationContent{
		Title:       "Habit Tracker with Custom Hooks",
		Description: "Extract useLocalStorage and useFetch hooks and share them across three views.",
		Link:        "https://react.dev/learn/reusing-logic-with-custom-hooks",
		Topic:       "React Hooks",
		Difficulty:  "Intermediate",
	}},
	{"react", model.RecommendationContent{
		Title:       "React Portfolio Site",
		Description: "Rebuild your portfolio as React components with routing and a projects list.",
		Link:        "https://react.dev/learn/tutorial-tic-tac-toe",
		Topic:       "React Basics",
		Difficulty:  "Intermediate",
	}},
	{"fetch", model.RecommendationContent{
		Title:       "Weather Dashboard",
		Description: "Call a public weather API with fetch, handle loading and error states.",
		Link:        "https://developer.mozilla.org/en-US/docs/Web/API/Fetch_API/Using_Fetch",
		Topic:       "Fetch API & Async JS",
		Difficulty:  "Beginner",
	}},
	{"dom", model.RecommendationContent{
		Title:       "Interactive To-Do List",
		Description: "Add, complete and filter tasks using only DOM APIs and event delegation.",
		Link:        "https://developer.mozilla.org/en-US/docs/Learn/JavaScript/Client-side_web_APIs/Manipulating_documents",
		Topic:       "DOM Manipulation",
		Difficulty:  "Beginner",
	}},
}

var defaultWebProject = model.RecommendationContent{
	Title:       "Personal Landing Page",
	Description: "A responsive single page with semantic HTML and a CSS grid layout.",
	Link:        "https://developer.mozilla.org/en-US/docs/Learn/CSS/CSS_layout/Grids",
	Topic:       "HTML & CSS Basics",
	Difficulty:  "Beginner",
}

// WebProjects 路线中已开始（进度 > 0）的节点命中关键字即推荐对应项目
func WebProjects(roadmap []model.RoadmapProgress, limit int) []model.Recommendation {
	if limit <= 0 {
		limit = DefaultWebLimit
	}
	var started []string
	for _, rp := range roadmap {
		if rp.Progress > 0 {
			started = append(started, strings.ToLower(rp.Topic))
		}
	}

	out := make([]model.Recommendation, 0, limit)
	for _, rule := range webProjectRules {
		if len(out) == limit {
			break
		}
		for _, topic := range started {
			if strings.Contains(topic, rule.keyword) {
				out = append(out, model.Recommendation{Type: model.RecommendationWebDev, Content: rule.project})
				break
			}
		}
	}
	if len(out) == 0 {
		out = append(out, model.Recommendation{Type: model.RecommendationWebDev, Content: defaultWebProject})
	}
	return out
}

type openSourceRule struct {
	minRepos, maxRepos   int
	minRating, maxRating int
	item                 model.RecommendationContent
}

const unbounded = 1 << 30

var openSourceRules = []openSourceRule{
	{0, 2, 0, unbounded, model.RecommendationContent{
		Title:       "First Contributions",
		Description: "Make your first pull request by following the guided workflow.",
		Link:        "https://github.com/firstcontributions/first-contributions",
		Topic:       "Git & GitHub",
		Difficulty:  "Beginner",
	}},
	{3, 9, 0, unbounded, model.RecommendationContent{
		Title:       "Good first issues on freeCodeCamp",
		Description: "Pick an issue labelled first-timers-only and ship a small fix.",
		Link:        "https://github.com/freeCodeCamp/freeCodeCamp/labels/first%20timers%20only",
		Topic:       "Git & GitHub",
		Difficulty:  "Beginner",
	}},
	{10, unbounded, 0, unbounded, model.RecommendationContent{
		Title:       "Up For Grabs",
		Description: "Browse curated projects with tasks reserved for new contributors.",
		Link:        "https://up-for-grabs.net",
		Topic:       "Open Source",
		Difficulty:  "Intermediate",
	}},
	{0, unbounded, 0, 1399, model.RecommendationContent{
		Title:       "Improve CP-Algorithms articles",
		Description: "Fix typos, add examples or translate an article you studied.",
		Link:        "https://github.com/cp-algorithms/cp-algorithms",
		Topic:       "Algorithms",
		Difficulty:  "Beginner",
	}},
	{0, unbounded, 1400, unbounded, model.RecommendationContent{
		Title:       "TheAlgorithms/Go",
		Description: "Implement a missing algorithm with tests in the Go collection.",
		Link:        "https://github.com/TheAlgorithms/Go",
		Topic:       "Algorithms",
		Difficulty:  "Intermediate",
	}},
}

// OpenSourceItems 按仓库数与 CF 分数查表
func OpenSourceItems(publicRepos, cfRating int) []model.Recommendation {
	out := make([]model.Recommendation, 0, 2)
	for _, rule := range openSourceRules {
		if publicRepos < rule.minRepos || publicRepos > rule.maxRepos {
			continue
		}
		if cfRating < rule.minRating || cfRating > rule.maxRating {
			continue
		}
		out = append(out, model.Recommendation{Type: model.RecommendationOpenSource, Content: rule.item})
	}
	return out
}
