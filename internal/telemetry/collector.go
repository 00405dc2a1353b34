package telemetry

import (
	"context"
	"devtrack_backend/internal/config"
	"devtrack_backend/internal/model"
	"devtrack_backend/pkg/logger"
	"devtrack_backend/pkg/monitoring"
	"devtrack_backend/pkg/tracing"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher 单个平台的抓取器。handle 为空时返回 (nil, nil)
type Fetcher interface {
	Platform() model.Platform
	Fetch(ctx context.Context, handle string) (*model.ExternalStatSnapshot, error)
}

// Result 一个平台的抓取结果。Snapshot 为 nil 表示“无数据”
type Result struct {
	Platform model.Platform
	Snapshot *model.ExternalStatSnapshot
	Status   model.FetchStatus
}

// Collector 并发调用各平台抓取器，所有错误都被吞掉并转换为状态
type Collector struct {
	fetchers map[model.Platform]Fetcher
	timeout  time.Duration
	github   *GitHubFetcher
}

func NewCollector(cfg config.TelemetryConfig) *Collector {
	hc := &http.Client{Timeout: cfg.Timeout()}
	gh := NewGitHubFetcher(cfg.GitHubBaseURL, cfg.GitHubToken, hc, cfg.RequestsPerSecond, cfg.Burst)
	return NewCollectorWithFetchers(cfg.Timeout(),
		NewCodeforcesFetcher(cfg.CodeforcesBaseURL, hc, cfg.RequestsPerSecond, cfg.Burst),
		NewLeetCodeFetcher(cfg.LeetCodeGraphQLURL, hc, cfg.RequestsPerSecond, cfg.Burst),
		gh,
	)
}

func NewCollectorWithFetchers(timeout time.Duration, fetchers ...Fetcher) *Collector {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	c := &Collector{fetchers: make(map[model.Platform]Fetcher), timeout: timeout}
	for _, f := range fetchers {
		c.fetchers[f.Platform()] = f
		if gh, ok := f.(*GitHubFetcher); ok {
			c.github = gh
		}
	}
	return c
}

// UpdateConfig 配置热更新，目前只有 GitHub token 可以在线替换
func (c *Collector) UpdateConfig(cfg config.TelemetryConfig) {
	if c.github != nil {
		c.github.SetToken(cfg.GitHubToken)
	}
}

// Collect 对 platforms 中的每个平台并发抓取并等待全部完成。
// 返回顺序与 platforms 一致，永远不返回错误。
func (c *Collector) Collect(ctx context.Context, handles model.PlatformHandles, platforms []model.Platform) []Result {
	results := make([]Result, len(platforms))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range platforms {
		i, p := i, p
		g.Go(func() error {
			results[i] = c.fetchOne(gctx, p, handles.Get(p))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (c *Collector) fetchOne(ctx context.Context, p model.Platform, handle string) Result {
	res := Result{Platform: p, Status: model.FetchStatus{Platform: p}}

	handle = strings.TrimSpace(handle)
	fetcher, ok := c.fetchers[p]
	if handle == "" || !ok {
		res.Status.Status = model.FetchStatusNotConfigured
		monitoring.FetchTotal.WithLabelValues(string(p), res.Status.Status).Inc()
		return res
	}

	ctx, span := tracing.StartSpan(ctx, "telemetry.fetch",
		attribute.String("platform", string(p)),
		attribute.String("handle", handle),
	)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	snap, err := fetcher.Fetch(ctx, handle)
	monitoring.FetchDuration.WithLabelValues(string(p)).Observe(time.Since(start).Seconds())
	tracing.EndSpan(span, err)

	if err == nil && snap == nil {
		err = newFetchError(p, KindMalformed, 0, errors.New("empty snapshot"))
	}
	if err != nil {
		res.Status.Status = StatusFor(err)
		res.Status.Message = userMessage(p, handle, KindOf(err))
		logger.Log.Warn("平台数据抓取失败",
			zap.String("platform", string(p)),
			zap.String("handle", handle),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err))
		monitoring.FetchTotal.WithLabelValues(string(p), res.Status.Status).Inc()
		return res
	}

	res.Snapshot = snap
	res.Status.Status = model.FetchStatusOK
	monitoring.FetchTotal.WithLabelValues(string(p), res.Status.Status).Inc()
	return res
}

func userMessage(p model.Platform, handle string, kind ErrorKind) string {
	switch kind {
	case KindNotFound:
		return "handle " + handle + " was not found on " + p.DisplayName()
	case KindConfigurationMissing:
		return ""
	}
	return p.DisplayName() + " is temporarily unavailable, previous data is kept"
}
