package telemetry

import (
	"bytes"
	"context"
	"devtrack_backend/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent    = "devtrack-backend/1.0"
	maxBodyBytes = 8 << 20
)

// apiClient 第三方 API 的共享 HTTP 客户端，每个平台一个限流器
type apiClient struct {
	platform model.Platform
	http     *http.Client
	limiter  *rate.Limiter
}

func newAPIClient(p model.Platform, hc *http.Client, limiter *rate.Limiter) *apiClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &apiClient{platform: p, http: hc, limiter: limiter}
}

func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (c *apiClient) getJSON(ctx context.Context, url string, header http.Header, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return newFetchError(c.platform, KindMalformed, 0, err)
	}
	return c.do(req, header, out)
}

func (c *apiClient) postJSON(ctx context.Context, url string, header http.Header, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return newFetchError(c.platform, KindMalformed, 0, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return newFetchError(c.platform, KindMalformed, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, header, out)
}

func (c *apiClient) do(req *http.Request, header http.Header, out interface{}) error {
	ctx := req.Context()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return newFetchError(c.platform, KindTransient, 0, err)
		}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return newFetchError(c.platform, KindTransient, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return newFetchError(c.platform, KindTransient, resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return newFetchError(c.platform, KindNotFound, resp.StatusCode, errors.New(snippet(body)))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return newFetchError(c.platform, KindTransient, resp.StatusCode, errors.New(snippet(body)))
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		// GitHub 的匿名限流返回 403
		return newFetchError(c.platform, KindTransient, resp.StatusCode, errors.New(snippet(body)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return newFetchError(c.platform, KindMalformed, resp.StatusCode, errors.New(snippet(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newFetchError(c.platform, KindMalformed, resp.StatusCode, fmt.Errorf("decode: %w", err))
	}
	return nil
}

func snippet(body []byte) string {
	const limit = 200
	s := string(bytes.TrimSpace(body))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

func unixDate(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(model.DateLayout)
}

func sortedDates(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
