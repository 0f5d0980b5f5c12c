package book

import (
	"context"
	"fmt"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/keylock"
)

// Service 图书领域服务接口(目录存储中与图书相关的部分)
// 设计说明:
// 1. 领域服务封装业务规则校验,不依赖具体的Repository实现(依赖倒置)
// 2. 修改和删除按图书ID串行化,与借阅流程使用同一把锁(LockKey)
type Service interface {
	// CreateBook 新建图书,初始状态为在架
	CreateBook(ctx context.Context, title, author string) (*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// UpdateBook 更新书名/作者,nil字段保持不变
	UpdateBook(ctx context.Context, id uint, title, author *string) (*Book, error)

	// DeleteBook 删除图书,返回删除前的记录
	// 业务规则:已借出的图书也可以删除,不清理借阅人信息
	DeleteBook(ctx context.Context, id uint) (*Book, error)
}

// LockKey 图书记录锁的Key
func LockKey(id uint) string {
	return fmt.Sprintf("book:%d", id)
}

type service struct {
	repo   Repository
	locker keylock.Locker
}

// NewService 创建图书领域服务
func NewService(repo Repository, locker keylock.Locker) Service {
	return &service{repo: repo, locker: locker}
}

// CreateBook 新建图书
func (s *service) CreateBook(ctx context.Context, title, author string) (*Book, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateAuthor(author); err != nil {
		return nil, err
	}

	book := NewBook(title, author)
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// ListBooks 查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// UpdateBook 更新图书信息
func (s *service) UpdateBook(ctx context.Context, id uint, title, author *string) (*Book, error) {
	// 1. 先校验参数,校验失败不触碰存储
	if title != nil {
		if err := ValidateTitle(*title); err != nil {
			return nil, err
		}
	}
	if author != nil {
		if err := ValidateAuthor(*author); err != nil {
			return nil, err
		}
	}

	// 2. 与借出/归还/删除串行
	unlock, err := s.locker.Lock(ctx, LockKey(id))
	if err != nil {
		return nil, apperrors.WrapLock(err)
	}
	defer unlock()

	// 3. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 4. 更新并持久化
	if err := book.UpdateInfo(title, author); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateInfo(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) (*Book, error) {
	unlock, err := s.locker.Lock(ctx, LockKey(id))
	if err != nil {
		return nil, apperrors.WrapLock(err)
	}
	defer unlock()

	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return book, nil
}
