package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
)

// DeleteBookUseCase 删除图书用例
// 已借出的图书也可以删除
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService}
}

// Execute 执行删除图书用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	deleted, err := uc.bookService.DeleteBook(ctx, id)
	if err != nil {
		return err
	}

	// 已删除的图书不再计入books_borrowed
	if deleted.IsBorrowed {
		metrics.InitMetrics()
		metrics.DecGauge(metrics.BooksBorrowed)
	}
	return nil
}
