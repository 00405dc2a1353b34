package controller

import (
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RoadmapController struct {
	RoadmapService *service.RoadmapService
}

func NewRoadmapController(roadmapService *service.RoadmapService) *RoadmapController {
	return &RoadmapController{RoadmapService: roadmapService}
}

// Get godoc
// @Summary 学习路线及完成度
// @Tags 学习路线
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.RoadmapView}
// @Router /api/roadmap [get]
func (c *RoadmapController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	view, err := c.RoadmapService.Get(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UpdateProgressRequest 路线节点进度
// swagger:model UpdateProgressRequest
type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// Update godoc
// @Summary 更新路线节点进度
// @Description progress 取值 0..100，达到 100 记为完成
// @Tags 学习路线
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   topic path string true "路线节点名称"
// @Param   body body UpdateProgressRequest true "进度"
// @Success 200 {object} util.Response{data=model.RoadmapView}
// @Failure 400 {object} util.Response "未知节点或进度越界"
// @Router /api/roadmap/{topic} [put]
func (c *RoadmapController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.RoadmapService.Update(userID, ctx.Param("topic"), *req.Progress)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
