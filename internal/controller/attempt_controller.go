package controller

import (
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// RecordAttemptRequest 手动记录的做题尝试
// swagger:model RecordAttemptRequest
type RecordAttemptRequest struct {
	Problem string `json:"problem" binding:"max=200"`
	Topic   string `json:"topic" binding:"required,max=100"`
	Verdict string `json:"verdict" binding:"required,max=20" example:"AC"`
	Rating  int    `json:"rating"`
}

// Record godoc
// @Summary 记录一次做题
// @Description verdict 为 OK 或 AC 时视为通过，参与知识点统计
// @Tags 做题记录
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body RecordAttemptRequest true "做题记录"
// @Success 201 {object} util.Response{data=model.ProblemAttempt}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/attempts [post]
func (c *AttemptController) Record(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req RecordAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	attempt, err := c.AttemptService.Record(userID, req.Problem, req.Topic, req.Verdict, req.Rating)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// List godoc
// @Summary 手动记录的做题列表
// @Tags 做题记录
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ProblemAttempt}
// @Router /api/attempts [get]
func (c *AttemptController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	attempts, err := c.AttemptService.List(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
