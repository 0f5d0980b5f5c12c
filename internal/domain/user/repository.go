package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/gormdb
// 3. 没有Update/Delete：用户一经创建不可修改
type Repository interface {
	// Create 创建用户
	// 注意：如果用户名已存在，应返回ErrNameTaken
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// List 查询全部用户（按ID升序）
	List(ctx context.Context) ([]*User, error)
}
