package controller

import (
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SyncController struct {
	SyncService *service.SyncService
}

func NewSyncController(syncService *service.SyncService) *SyncController {
	return &SyncController{SyncService: syncService}
}

// Sync godoc
// @Summary 同步外部平台数据并重新计算画像
// @Description 已有同步进行中时：force=false 直接返回 skipped=true；force=true 等待其结束后重新执行
// @Tags 同步
// @Produce  json
// @Security ApiKeyAuth
// @Param   force query bool false "强制重新抓取所有已绑定平台"
// @Success 200 {object} util.Response{data=model.SyncReport}
// @Failure 409 {object} util.Response "等待中的强制同步被取消"
// @Router /api/sync [post]
func (c *SyncController) Sync(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(ctx.DefaultQuery("force", "false"))

	report, err := c.SyncService.Sync(ctx.Request.Context(), userID, force, service.TriggerManual)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Status godoc
// @Summary 同步状态
// @Description 是否正在同步，以及各平台最近一次同步时间、是否过期和结果
// @Tags 同步
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.SyncStatus}
// @Router /api/sync/status [get]
func (c *SyncController) Status(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	status, err := c.SyncService.Status(ctx.Request.Context(), userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// SyncStale godoc
// @Summary 立即执行一轮过期数据的批量同步
// @Description 与定时任务相同：只同步数据已过期的一批用户，返回实际完成同步的人数
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/sync/stale [post]
func (c *SyncController) SyncStale(ctx *gin.Context) {
	synced, err := c.SyncService.SyncStaleUsers(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"synced": synced})
}
