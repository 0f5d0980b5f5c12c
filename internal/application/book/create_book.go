package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// CreateBookUseCase 新建图书用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO,与HTTP层解耦
// 3. 书名/作者的校验由领域服务负责
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建新建图书用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
	}
}

// CreateBookRequest 新建图书请求DTO
type CreateBookRequest struct {
	Title  string
	Author string
}

// Execute 执行新建图书用例
// 新书总是在架状态,请求中无法指定借阅状态
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.CreateBook(ctx, req.Title, req.Author)
	if err != nil {
		return nil, err
	}
	return NewBookResponse(b), nil
}
