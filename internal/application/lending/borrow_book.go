// Package lending 借阅用例：在借阅引擎外层增加链路追踪和指标
package lending

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "library/lending"

// BorrowBookUseCase 借书用例
type BorrowBookUseCase struct {
	lendingService lending.Service
}

// NewBorrowBookUseCase 创建借书用例
func NewBorrowBookUseCase(lendingService lending.Service) *BorrowBookUseCase {
	return &BorrowBookUseCase{
		lendingService: lendingService,
	}
}

// BorrowBookRequest 借书请求DTO
type BorrowBookRequest struct {
	BookID uint
	UserID uint
}

// Execute 执行借书
// 失败时不重试，冲突原样返回给调用方
func (uc *BorrowBookUseCase) Execute(ctx context.Context, req BorrowBookRequest) (resp *bookapp.BookResponse, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "BorrowBook", trace.WithAttributes(
		attribute.Int64("book.id", int64(req.BookID)),
		attribute.Int64("user.id", int64(req.UserID)),
	))
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveLending(metrics.OpBorrow, err, start)
	}()

	b, err := uc.lendingService.Borrow(ctx, req.BookID, req.UserID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "图书已借出", "book_id", b.ID, "user_id", req.UserID)
	return bookapp.NewBookResponse(b), nil
}
