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

// ReturnBookUseCase 还书用例
// 任何人都可以归还（不校验归还人是否为借阅人）
type ReturnBookUseCase struct {
	lendingService lending.Service
}

// NewReturnBookUseCase 创建还书用例
func NewReturnBookUseCase(lendingService lending.Service) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		lendingService: lendingService,
	}
}

// Execute 执行还书
func (uc *ReturnBookUseCase) Execute(ctx context.Context, bookID uint) (resp *bookapp.BookResponse, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReturnBook", trace.WithAttributes(
		attribute.Int64("book.id", int64(bookID)),
	))
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveLending(metrics.OpReturn, err, start)
	}()

	b, err := uc.lendingService.Return(ctx, bookID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "图书已归还", "book_id", b.ID)
	return bookapp.NewBookResponse(b), nil
}
