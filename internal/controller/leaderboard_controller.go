package controller

import (
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// Top godoc
// @Summary 综合分排行榜
// @Tags 排行榜
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "条数，默认20，最多100"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Top(ctx *gin.Context) {
	limit := queryInt(ctx, "limit", util.DefaultLeaderboard)
	if limit <= 0 {
		limit = util.DefaultLeaderboard
	}
	if limit > util.MaxLeaderboard {
		limit = util.MaxLeaderboard
	}
	entries, err := c.LeaderboardService.Top(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
