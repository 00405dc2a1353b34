package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrSessionNotFound     = errors.New("study session not found")
	ErrInvalidMinutes      = errors.New("minutes must be between 1 and 1440")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidVerdict      = errors.New("verdict is required")
	ErrInvalidTopic        = errors.New("topic is required")
	ErrUnknownRoadmapTopic = errors.New("unknown roadmap topic")
	ErrInvalidProgress     = errors.New("progress must be between 0 and 100")
	ErrInvalidHandle       = errors.New("platform handle is too long")
	ErrSyncInProgress      = errors.New("sync already in progress")
)
