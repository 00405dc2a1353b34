package telemetry

import (
	"context"
	"devtrack_backend/internal/model"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	codeforcesSubmissionLimit = 500
	recentWindowDays          = 90
)

type cfUserInfoResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  []struct {
		Handle    string `json:"handle"`
		Rating    *int   `json:"rating"`
		MaxRating *int   `json:"maxRating"`
		Rank      string `json:"rank"`
	} `json:"result"`
}

type cfSubmission struct {
	ID                  int64  `json:"id"`
	ContestID           int    `json:"contestId"`
	CreationTimeSeconds int64  `json:"creationTimeSeconds"`
	Verdict             string `json:"verdict"`
	Problem             struct {
		ContestID int      `json:"contestId"`
		Index     string   `json:"index"`
		Name      string   `json:"name"`
		Rating    int      `json:"rating"`
		Tags      []string `json:"tags"`
	} `json:"problem"`
}

type cfUserStatusResponse struct {
	Status  string         `json:"status"`
	Comment string         `json:"comment"`
	Result  []cfSubmission `json:"result"`
}

// CodeforcesFetcher 调用 user.info 与 user.status 两个接口
type CodeforcesFetcher struct {
	baseURL string
	client  *apiClient
	now     func() time.Time
}

func NewCodeforcesFetcher(baseURL string, hc *http.Client, perSecond float64, burst int) *CodeforcesFetcher {
	return &CodeforcesFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newAPIClient(model.PlatformCodeforces, hc, newLimiter(perSecond, burst)),
		now:     time.Now,
	}
}

func (f *CodeforcesFetcher) Platform() model.Platform { return model.PlatformCodeforces }

func (f *CodeforcesFetcher) Fetch(ctx context.Context, handle string) (*model.ExternalStatSnapshot, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, nil
	}

	var info cfUserInfoResponse
	var status cfUserStatusResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u := fmt.Sprintf("%s/user.info?handles=%s", f.baseURL, url.QueryEscape(handle))
		if err := f.client.getJSON(gctx, u, nil, &info); err != nil {
			return f.classify(err)
		}
		return f.checkStatus(info.Status, info.Comment)
	})
	g.Go(func() error {
		u := fmt.Sprintf("%s/user.status?handle=%s&from=1&count=%d", f.baseURL, url.QueryEscape(handle), codeforcesSubmissionLimit)
		if err := f.client.getJSON(gctx, u, nil, &status); err != nil {
			return f.classify(err)
		}
		return f.checkStatus(status.Status, status.Comment)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(info.Result) == 0 {
		return nil, newFetchError(model.PlatformCodeforces, KindNotFound, 0, errors.New("empty user.info result"))
	}

	user := info.Result[0]
	now := f.now()
	snap := &model.ExternalStatSnapshot{
		Platform:   model.PlatformCodeforces,
		Handle:     handle,
		Rating:     user.Rating,
		MaxRating:  user.MaxRating,
		Rank:       user.Rank,
		FetchedAt:  now,
		Codeforces: &model.CodeforcesDetail{Attempts: []model.TopicAttempt{}},
	}

	cutoff := now.AddDate(0, 0, -recentWindowDays).Unix()
	solved := make(map[string]struct{})
	dates := make(map[string]struct{})
	for _, sub := range status.Result {
		if sub.Verdict == "" {
			continue
		}
		for _, tag := range sub.Problem.Tags {
			snap.Codeforces.Attempts = append(snap.Codeforces.Attempts, model.TopicAttempt{
				Topic:   tag,
				Verdict: sub.Verdict,
				Rating:  sub.Problem.Rating,
			})
		}
		if sub.Verdict != model.VerdictOK {
			continue
		}
		contestID := sub.Problem.ContestID
		if contestID == 0 {
			contestID = sub.ContestID
		}
		solved[fmt.Sprintf("%d-%s", contestID, sub.Problem.Index)] = struct{}{}
		if sub.CreationTimeSeconds >= cutoff {
			dates[unixDate(sub.CreationTimeSeconds)] = struct{}{}
		}
	}

	snap.SolvedCount = len(solved)
	snap.RecentActivityDates = sortedDates(dates)
	return snap, nil
}

// Codeforces 对不存在的 handle 返回 400 + "not found"
func (f *CodeforcesFetcher) classify(err error) error {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Status == http.StatusBadRequest && strings.Contains(strings.ToLower(err.Error()), "not found") {
		fe.Kind = KindNotFound
	}
	return err
}

func (f *CodeforcesFetcher) checkStatus(status, comment string) error {
	if status == "OK" {
		return nil
	}
	if strings.Contains(strings.ToLower(comment), "not found") {
		return newFetchError(model.PlatformCodeforces, KindNotFound, 0, errors.New(comment))
	}
	return newFetchError(model.PlatformCodeforces, KindMalformed, 0, fmt.Errorf("status %q: %s", status, comment))
}
