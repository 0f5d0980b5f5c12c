package user

import (
	"context"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/keylock"
)

// Service 用户领域服务
type Service interface {
	// CreateUser 创建用户（名字去除首尾空白后唯一）
	CreateUser(ctx context.Context, name string) (*User, error)

	// GetUser 根据ID获取用户
	GetUser(ctx context.Context, id uint) (*User, error)

	// ListUsers 查询全部用户
	ListUsers(ctx context.Context) ([]*User, error)
}

type service struct {
	repo   Repository
	locker keylock.Locker
}

// NewService 创建用户服务
func NewService(repo Repository, locker keylock.Locker) Service {
	return &service{repo: repo, locker: locker}
}

// CreateUser 创建用户
// 业务规则：
// 1. 名字去除首尾空白后不能为空
// 2. 名字唯一性由数据库UNIQUE索引保证，Repository把冲突转换为ErrNameTaken
// 3. 同名创建按名字串行化
func (s *service) CreateUser(ctx context.Context, name string) (*User, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, "user:name:"+normalized)
	if err != nil {
		return nil, apperrors.WrapLock(err)
	}
	defer unlock()

	user := NewUser(normalized)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser 根据ID获取用户
func (s *service) GetUser(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers 查询全部用户
func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}
