// Package lending 借阅引擎：图书在“在架”和“已借出”两个状态之间的流转
//
// 状态机：
//
//	Available --Borrow(userID)--> Borrowed
//	Borrowed  --Return()--------> Available
//
// 没有终止状态，图书被删除不属于借阅流转。
package lending

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/keylock"
)

// Transactor 事务执行器
// fn内通过ctx调用的所有Repository操作在同一事务中执行，fn返回error时回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service 借阅领域服务
type Service interface {
	// Borrow 借出图书
	// 校验顺序：图书存在 → 图书在架 → 用户存在
	// 不限制同一用户同时借多本书
	Borrow(ctx context.Context, bookID, userID uint) (*book.Book, error)

	// Return 归还图书
	Return(ctx context.Context, bookID uint) (*book.Book, error)
}

type service struct {
	books  book.Repository
	users  user.Repository
	tx     Transactor
	locker keylock.Locker
}

// NewService 创建借阅服务
func NewService(books book.Repository, users user.Repository, tx Transactor, locker keylock.Locker) Service {
	return &service{
		books:  books,
		users:  users,
		tx:     tx,
		locker: locker,
	}
}

// Borrow 借出图书
// 并发控制（由外到内）：
// 1. 按图书ID加锁，同一本书的借还请求串行执行
// 2. 事务内SELECT FOR UPDATE锁定图书行（多实例共享数据库时生效）
// 3. UpdateLending条件更新，is_borrowed已被改变时返回冲突
func (s *service) Borrow(ctx context.Context, bookID, userID uint) (*book.Book, error) {
	unlock, err := s.locker.Lock(ctx, book.LockKey(bookID))
	if err != nil {
		return nil, apperrors.WrapLock(err)
	}
	defer unlock()

	var borrowed *book.Book
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.books.LockByID(ctx, bookID)
		if err != nil {
			return err
		}
		if b.State() == book.StateBorrowed {
			return book.ErrAlreadyBorrowed
		}

		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		if err := b.Borrow(u.ID); err != nil {
			return err
		}
		if err := s.books.UpdateLending(ctx, b, false); err != nil {
			return err
		}
		borrowed = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return borrowed, nil
}

// Return 归还图书
func (s *service) Return(ctx context.Context, bookID uint) (*book.Book, error) {
	unlock, err := s.locker.Lock(ctx, book.LockKey(bookID))
	if err != nil {
		return nil, apperrors.WrapLock(err)
	}
	defer unlock()

	var returned *book.Book
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.books.LockByID(ctx, bookID)
		if err != nil {
			return err
		}
		if err := b.Return(); err != nil {
			return err
		}
		if err := s.books.UpdateLending(ctx, b, true); err != nil {
			return err
		}
		returned = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return returned, nil
}
