package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// UpdateBookUseCase 修改图书用例
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建修改图书用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 修改图书请求DTO
// nil字段保持原值;借阅状态不能通过修改接口改变
type UpdateBookRequest struct {
	ID     uint
	Title  *string
	Author *string
}

// Execute 执行修改图书用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.UpdateBook(ctx, req.ID, req.Title, req.Author)
	if err != nil {
		return nil, err
	}
	return NewBookResponse(b), nil
}
