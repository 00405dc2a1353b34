package telemetry

import (
	"context"
	"devtrack_backend/internal/model"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	githubPerPage    = 100
	commitWindowDays = 30
)

type ghUser struct {
	Login       string `json:"login"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

type ghRepo struct {
	Name            string `json:"name"`
	StargazersCount int    `json:"stargazers_count"`
	Fork            bool   `json:"fork"`
}

type ghEvent struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Payload   struct {
		Size    int        `json:"size"`
		Commits []ghCommit `json:"commits"`
	} `json:"payload"`
}

type ghCommit struct {
	SHA string `json:"sha"`
}

// GitHubFetcher 只读取第一页仓库与事件，不做分页
type GitHubFetcher struct {
	baseURL string
	client  *apiClient
	now     func() time.Time

	mu    sync.RWMutex
	token string
}

func NewGitHubFetcher(baseURL, token string, hc *http.Client, perSecond float64, burst int) *GitHubFetcher {
	return &GitHubFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newAPIClient(model.PlatformGitHub, hc, newLimiter(perSecond, burst)),
		now:     time.Now,
		token:   token,
	}
}

func (f *GitHubFetcher) Platform() model.Platform { return model.PlatformGitHub }

// SetToken 配置热更新时替换访问令牌
func (f *GitHubFetcher) SetToken(token string) {
	f.mu.Lock()
	f.token = strings.TrimSpace(token)
	f.mu.Unlock()
}

func (f *GitHubFetcher) header() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/vnd.github+json")
	f.mu.RLock()
	token := f.token
	f.mu.RUnlock()
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func (f *GitHubFetcher) Fetch(ctx context.Context, handle string) (*model.ExternalStatSnapshot, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, nil
	}

	var (
		user   ghUser
		repos  []ghRepo
		events []ghEvent
	)
	header := f.header()
	escaped := url.PathEscape(handle)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return f.client.getJSON(gctx, fmt.Sprintf("%s/users/%s", f.baseURL, escaped), header, &user)
	})
	g.Go(func() error {
		u := fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=pushed", f.baseURL, escaped, githubPerPage)
		return f.client.getJSON(gctx, u, header, &repos)
	})
	g.Go(func() error {
		u := fmt.Sprintf("%s/users/%s/events/public?per_page=%d", f.baseURL, escaped, githubPerPage)
		return f.client.getJSON(gctx, u, header, &events)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := f.now()
	detail := &model.GitHubDetail{
		PublicRepos: user.PublicRepos,
		Followers:   user.Followers,
	}
	for _, r := range repos {
		detail.TotalStars += r.StargazersCount
	}

	cutoff90 := now.AddDate(0, 0, -recentWindowDays)
	cutoff30 := now.AddDate(0, 0, -commitWindowDays)
	dates := make(map[string]struct{})
	for _, ev := range events {
		if ev.CreatedAt.Before(cutoff90) {
			continue
		}
		switch ev.Type {
		case "PushEvent":
			commits := len(ev.Payload.Commits)
			if commits == 0 {
				commits = ev.Payload.Size
			}
			detail.CommitsLast90Days += commits
			if !ev.CreatedAt.Before(cutoff30) {
				detail.CommitsLast30Days += commits
			}
			dates[ev.CreatedAt.UTC().Format(model.DateLayout)] = struct{}{}
		case "PullRequestEvent":
			dates[ev.CreatedAt.UTC().Format(model.DateLayout)] = struct{}{}
		}
	}

	return &model.ExternalStatSnapshot{
		Platform:            model.PlatformGitHub,
		Handle:              handle,
		RecentActivityDates: sortedDates(dates),
		FetchedAt:           now,
		GitHub:              detail,
	}, nil
}
