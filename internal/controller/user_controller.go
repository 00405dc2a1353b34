package controller

import (
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetHandles godoc
// @Summary 获取绑定的平台账号
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.PlatformHandles}
// @Router /api/profile/handles [get]
func (c *UserController) GetHandles(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	handles, err := c.UserService.GetHandles(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, handles)
}

// UpdateHandles godoc
// @Summary 更新绑定的平台账号
// @Description 空字符串表示解绑；更换账号后旧账号的快照不再参与计算
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.PlatformHandles true "平台账号"
// @Success 200 {object} util.Response{data=model.PlatformHandles}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/profile/handles [put]
func (c *UserController) UpdateHandles(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req model.PlatformHandles
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	handles, err := c.UserService.UpdateHandles(userID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, handles)
}
