package telemetry

import (
	"context"
	"devtrack_backend/internal/model"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const leetCodeProfileQuery = `query userProfile($username: String!) {
  matchedUser(username: $username) {
    profile { ranking }
    submitStats { acSubmissionNum { difficulty count } }
    userCalendar { submissionCalendar }
  }
}`

type lcGraphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type lcProfileResponse struct {
	Data struct {
		MatchedUser *struct {
			Profile struct {
				Ranking int `json:"ranking"`
			} `json:"profile"`
			SubmitStats struct {
				AcSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
			UserCalendar *struct {
				SubmissionCalendar string `json:"submissionCalendar"`
			} `json:"userCalendar"`
		} `json:"matchedUser"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type LeetCodeFetcher struct {
	endpoint string
	client   *apiClient
	now      func() time.Time
}

func NewLeetCodeFetcher(endpoint string, hc *http.Client, perSecond float64, burst int) *LeetCodeFetcher {
	return &LeetCodeFetcher{
		endpoint: endpoint,
		client:   newAPIClient(model.PlatformLeetCode, hc, newLimiter(perSecond, burst)),
		now:      time.Now,
	}
}

func (f *LeetCodeFetcher) Platform() model.Platform { return model.PlatformLeetCode }

func (f *LeetCodeFetcher) Fetch(ctx context.Context, handle string) (*model.ExternalStatSnapshot, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, nil
	}

	req := lcGraphQLRequest{
		Query:     leetCodeProfileQuery,
		Variables: map[string]string{"username": handle},
	}
	header := http.Header{}
	header.Set("Referer", "https://leetcode.com/"+handle+"/")

	var resp lcProfileResponse
	if err := f.client.postJSON(ctx, f.endpoint, header, req, &resp); err != nil {
		return nil, err
	}

	user := resp.Data.MatchedUser
	if user == nil {
		msg := "matchedUser is null"
		if len(resp.Errors) > 0 {
			msg = resp.Errors[0].Message
		}
		return nil, newFetchError(model.PlatformLeetCode, KindNotFound, 0, errors.New(msg))
	}

	snap := &model.ExternalStatSnapshot{
		Platform:  model.PlatformLeetCode,
		Handle:    handle,
		FetchedAt: f.now(),
		LeetCode:  &model.LeetCodeDetail{},
	}
	if user.Profile.Ranking > 0 {
		snap.Rank = strconv.Itoa(user.Profile.Ranking)
	}
	for _, ac := range user.SubmitStats.AcSubmissionNum {
		switch ac.Difficulty {
		case "All":
			snap.SolvedCount = ac.Count
		case "Easy":
			snap.LeetCode.EasySolved = ac.Count
		case "Medium":
			snap.LeetCode.MediumSolved = ac.Count
		case "Hard":
			snap.LeetCode.HardSolved = ac.Count
		}
	}

	calendar := ""
	if user.UserCalendar != nil {
		calendar = user.UserCalendar.SubmissionCalendar
	}
	snap.RecentActivityDates = sortedDates(ParseSubmissionCalendar(calendar))
	return snap, nil
}

// ParseSubmissionCalendar 解析 "unix 秒 -> 提交数" 的 JSON 字符串；
// 无法解析时返回空集合而不是错误
func ParseSubmissionCalendar(raw string) map[string]struct{} {
	dates := make(map[string]struct{})
	if strings.TrimSpace(raw) == "" {
		return dates
	}
	var counts map[string]int
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		return dates
	}
	for ts, n := range counts {
		if n <= 0 {
			continue
		}
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			continue
		}
		dates[unixDate(sec)] = struct{}{}
	}
	return dates
}
