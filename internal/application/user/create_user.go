package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
)

// CreateUserUseCase 创建用户用例
// 设计说明：
// 1. Application层负责用例编排，协调领域服务
// 2. 名字规范化与唯一性校验都由领域服务负责
type CreateUserUseCase struct {
	userService user.Service
}

// NewCreateUserUseCase 创建用户用例
func NewCreateUserUseCase(userService user.Service) *CreateUserUseCase {
	return &CreateUserUseCase{
		userService: userService,
	}
}

// Execute 执行创建用户
// 返回：UserResponse（应用层DTO，不是领域实体）
func (uc *CreateUserUseCase) Execute(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	// 1. 调用领域服务
	u, err := uc.userService.CreateUser(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	// 2. 领域实体 → 应用层DTO
	return NewUserResponse(u), nil
}

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Name string
}

// UserResponse 用户响应
type UserResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewUserResponse 领域实体 → 响应DTO
func NewUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:   u.ID,
		Name: u.Name,
	}
}
