package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// UserHandler 用户HTTP处理器
// 说明：用户只支持创建和查询，没有修改和删除接口
type UserHandler struct {
	createUserUseCase *appuser.CreateUserUseCase
	getUserUseCase    *appuser.GetUserUseCase
	listUsersUseCase  *appuser.ListUsersUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	createUserUseCase *appuser.CreateUserUseCase,
	getUserUseCase *appuser.GetUserUseCase,
	listUsersUseCase *appuser.ListUsersUseCase,
) *UserHandler {
	return &UserHandler{
		createUserUseCase: createUserUseCase,
		getUserUseCase:    getUserUseCase,
		listUsersUseCase:  listUsersUseCase,
	}
}

// CreateUser 创建用户
// @Summary      创建用户
// @Description  名字去除首尾空白后唯一
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateUserRequest true "用户信息"
// @Success      200 {object} dto.UserResponse
// @Failure      409 {object} response.Response "用户名已存在"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	// 1. 绑定并验证参数
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	// 2. 调用应用层用例
	result, err := h.createUserUseCase.Execute(c.Request.Context(), appuser.CreateUserRequest{
		Name: req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应
	response.Success(c, toUserDTO(result))
}

// ListUsers 用户列表
// @Summary      用户列表
// @Tags         用户
// @Produce      json
// @Success      200 {array} dto.UserResponse
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	result, err := h.listUsersUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.UserResponse, len(result))
	for i, u := range result {
		list[i] = toUserDTO(u)
	}
	response.Success(c, list)
}

// GetUser 用户详情
// @Summary      用户详情
// @Tags         用户
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200 {object} dto.UserResponse
// @Failure      404 {object} response.Response "用户不存在"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	result, err := h.getUserUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toUserDTO(result))
}

func toUserDTO(u *appuser.UserResponse) *dto.UserResponse {
	return &dto.UserResponse{
		ID:   u.ID,
		Name: u.Name,
	}
}
