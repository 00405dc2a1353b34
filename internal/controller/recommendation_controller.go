package controller

import (
	"devtrack_backend/internal/recommend"
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	RecommendationService *service.RecommendationService
}

func NewRecommendationController(recommendationService *service.RecommendationService) *RecommendationController {
	return &RecommendationController{RecommendationService: recommendationService}
}

// Recommend godoc
// @Summary 个性化推荐
// @Description limit 只接受 3 或 6，其他值按 3 处理（大于 3 按 6）
// @Tags 推荐
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "DSA 题目数量"
// @Success 200 {object} util.Response{data=model.RecommendationSet}
// @Router /api/recommendations [get]
func (c *RecommendationController) Recommend(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	set, err := c.RecommendationService.Recommend(userID, queryInt(ctx, "limit", recommend.DefaultDSALimit))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, set)
}
