package controller

import (
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CoachingController struct {
	CoachingService *service.CoachingService
}

func NewCoachingController(coachingService *service.CoachingService) *CoachingController {
	return &CoachingController{CoachingService: coachingService}
}

// Analyze godoc
// @Summary AI 学习分析
// @Description 模型不可用或返回无效内容时给出默认分析，fallback=true
// @Tags 教练
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.CoachingAnalysis}
// @Router /api/coaching/analysis [post]
func (c *CoachingController) Analyze(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	analysis, err := c.CoachingService.Analyze(ctx.Request.Context(), userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, analysis)
}
