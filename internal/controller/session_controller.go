package controller

import (
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// CreateSessionRequest 学习记录
// swagger:model CreateSessionRequest
type CreateSessionRequest struct {
	Date    string `json:"date" example:"2026-10-19"`
	Minutes int    `json:"minutes" binding:"required"`
	Topic   string `json:"topic" binding:"max=100"`
	Notes   string `json:"notes"`
}

// Create godoc
// @Summary 记录一次学习
// @Description date 为空时记为今天（UTC）
// @Tags 学习记录
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateSessionRequest true "学习记录"
// @Success 201 {object} util.Response{data=model.StudySession}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/sessions [post]
func (c *SessionController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.Create(userID, req.Date, req.Minutes, req.Topic, req.Notes)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// List godoc
// @Summary 最近的学习记录
// @Tags 学习记录
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "条数，默认50"
// @Success 200 {object} util.Response{data=[]model.StudySession}
// @Router /api/sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	sessions, err := c.SessionService.List(userID, queryInt(ctx, "limit", util.DefaultSessionsLimit))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// Delete godoc
// @Summary 删除学习记录
// @Tags 学习记录
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/sessions/{id} [delete]
func (c *SessionController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的记录ID")
		return
	}
	if err := c.SessionService.Delete(userID, uint(id)); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
