package book

import (
	"strings"
	"time"
)

// State 图书的借阅状态
type State int

const (
	// StateAvailable 在架(未借出),新建图书的初始状态
	StateAvailable State = iota
	// StateBorrowed 已借出
	StateBorrowed
)

func (s State) String() string {
	if s == StateBorrowed {
		return "borrowed"
	}
	return "available"
}

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 每条图书记录对应一本实体书(不做多副本库存)
// 2. BorrowerID是对User的弱引用,只保存ID,需要时再查询用户
// 3. 不变量:IsBorrowed == (BorrowerID != nil),只能通过Borrow/Return改变
type Book struct {
	ID         uint
	Title      string
	Author     string
	IsBorrowed bool
	BorrowerID *uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBook 创建新图书(工厂方法)
// 新书处于在架状态,调用方需先通过ValidateTitle/ValidateAuthor校验
func NewBook(title, author string) *Book {
	now := time.Now()
	return &Book{
		Title:     title,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// State 当前借阅状态
func (b *Book) State() State {
	if b.IsBorrowed {
		return StateBorrowed
	}
	return StateAvailable
}

// Borrow 借出(领域行为)
// 业务规则:已借出的图书不能再次借出(不排队、不覆盖)
func (b *Book) Borrow(userID uint) error {
	if b.IsBorrowed {
		return ErrAlreadyBorrowed
	}
	b.IsBorrowed = true
	b.BorrowerID = &userID
	b.UpdatedAt = time.Now()
	return nil
}

// Return 归还(领域行为)
// 业务规则:未借出的图书不能归还
func (b *Book) Return() error {
	if !b.IsBorrowed {
		return ErrNotBorrowed
	}
	b.IsBorrowed = false
	b.BorrowerID = nil
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息
// 只修改传入的字段,nil表示保持不变
func (b *Book) UpdateInfo(title, author *string) error {
	if title != nil {
		if err := ValidateTitle(*title); err != nil {
			return err
		}
	}
	if author != nil {
		if err := ValidateAuthor(*author); err != nil {
			return err
		}
	}
	if title != nil {
		b.Title = *title
	}
	if author != nil {
		b.Author = *author
	}
	b.UpdatedAt = time.Now()
	return nil
}

// ValidateTitle 校验书名:不能全为空白
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidTitle
	}
	return nil
}

// ValidateAuthor 校验作者:不能全为空白
func ValidateAuthor(author string) error {
	if strings.TrimSpace(author) == "" {
		return ErrInvalidAuthor
	}
	return nil
}
