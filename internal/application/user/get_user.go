package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
)

// GetUserUseCase 用户详情用例
type GetUserUseCase struct {
	userService user.Service
}

// NewGetUserUseCase 创建用户详情用例
func NewGetUserUseCase(userService user.Service) *GetUserUseCase {
	return &GetUserUseCase{userService: userService}
}

// Execute 执行用户详情查询
func (uc *GetUserUseCase) Execute(ctx context.Context, id uint) (*UserResponse, error) {
	u, err := uc.userService.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewUserResponse(u), nil
}
