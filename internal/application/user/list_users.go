package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
)

// ListUsersUseCase 用户列表用例
type ListUsersUseCase struct {
	userService user.Service
}

// NewListUsersUseCase 创建用户列表用例
func NewListUsersUseCase(userService user.Service) *ListUsersUseCase {
	return &ListUsersUseCase{userService: userService}
}

// Execute 查询全部用户（按ID升序）
func (uc *ListUsersUseCase) Execute(ctx context.Context) ([]*UserResponse, error) {
	users, err := uc.userService.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*UserResponse, len(users))
	for i, u := range users {
		list[i] = NewUserResponse(u)
	}
	return list, nil
}
