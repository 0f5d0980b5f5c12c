package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// MaxPageSize 每页最大数量
const MaxPageSize = 100

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 不传分页参数时返回全部图书(按ID升序),与旧版API一致
// 2. 传入page_size时分页,page默认1,page_size最大100
// 3. 支持按书名/作者关键词过滤
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量,0表示不分页
	Keyword  string // 搜索关键词(搜索标题、作者)
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List  []*BookResponse
	Total int64
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 参数默认值与范围限制
	params := book.ListParams{Keyword: req.Keyword}
	if req.PageSize > 0 {
		params.Page = req.Page
		if params.Page < 1 {
			params.Page = 1
		}
		params.PageSize = req.PageSize
		if params.PageSize > MaxPageSize {
			params.PageSize = MaxPageSize
		}
	}

	// 2. 查询
	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	// 3. 转换为DTO
	list := make([]*BookResponse, len(books))
	for i, b := range books {
		list[i] = NewBookResponse(b)
	}

	return &ListBooksResponse{
		List:  list,
		Total: total,
	}, nil
}
