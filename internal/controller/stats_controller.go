package controller

import (
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// Snapshots godoc
// @Summary 各平台最近一次快照
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ExternalStatSnapshot}
// @Router /api/stats/snapshots [get]
func (c *StatsController) Snapshots(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	snaps, err := c.StatsService.Snapshots(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, snaps)
}

// Activity godoc
// @Summary 按天合并的活动记录
// @Description 只返回有活动的日期，按日期升序
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Param   days query int false "天数，默认30，最多365"
// @Success 200 {object} util.Response{data=[]model.UnifiedActivityRecord}
// @Router /api/stats/activity [get]
func (c *StatsController) Activity(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	records, err := c.StatsService.Activity(userID, queryInt(ctx, "days", util.DefaultActivityDays))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// Topics godoc
// @Summary 知识点统计与强弱项
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.TopicBreakdown}
// @Router /api/stats/topics [get]
func (c *StatsController) Topics(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	topics, err := c.StatsService.Topics(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// SkillProfile godoc
// @Summary 技能画像
// @Description computedAt 为空表示尚未同步，结果为即时计算
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.SkillProfileView}
// @Router /api/skill-profile [get]
func (c *StatsController) SkillProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	profile, err := c.StatsService.SkillProfile(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
