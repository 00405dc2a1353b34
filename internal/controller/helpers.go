package controller

import (
	"devtrack_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// currentUserID 未登录时已写入 401 响应
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}

// handleServiceError 把业务错误映射为统一响应
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound), errors.Is(err, util.ErrSessionNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrInvalidMinutes),
		errors.Is(err, util.ErrInvalidDate),
		errors.Is(err, util.ErrInvalidHandle),
		errors.Is(err, util.ErrInvalidVerdict),
		errors.Is(err, util.ErrInvalidTopic),
		errors.Is(err, util.ErrUnknownRoadmapTopic),
		errors.Is(err, util.ErrInvalidProgress):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrEmailRegistered), errors.Is(err, util.ErrSyncInProgress):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// queryInt 参数缺失或非法时返回 def
func queryInt(ctx *gin.Context, key string, def int) int {
	raw := ctx.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
