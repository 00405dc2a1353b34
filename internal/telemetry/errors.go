package telemetry

import (
	"devtrack_backend/internal/model"
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// KindNotFound 平台上不存在该用户，用户可自行修正
	KindNotFound ErrorKind = "not_found"
	// KindTransient 超时、限流、5xx，稍后重试即可
	KindTransient ErrorKind = "transient"
	// KindMalformed 响应结构不符合预期，按 Transient 对待
	KindMalformed ErrorKind = "malformed"
	// KindConfigurationMissing 未配置账号，静默跳过
	KindConfigurationMissing ErrorKind = "not_configured"
)

type FetchError struct {
	Platform model.Platform
	Kind     ErrorKind
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s fetch failed: %s", e.Platform, msg)
}

func (e *FetchError) Unwrap() error { return e.Err }

func newFetchError(p model.Platform, kind ErrorKind, status int, err error) *FetchError {
	return &FetchError{Platform: p, Kind: kind, Status: status, Err: err}
}

// KindOf 未分类的错误按 Transient 处理
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransient
}

// StatusFor 把错误映射为给用户展示的状态
func StatusFor(err error) string {
	switch KindOf(err) {
	case "":
		return model.FetchStatusOK
	case KindNotFound:
		return model.FetchStatusNotFound
	case KindMalformed:
		return model.FetchStatusMalformed
	case KindConfigurationMissing:
		return model.FetchStatusNotConfigured
	}
	return model.FetchStatusTransient
}
