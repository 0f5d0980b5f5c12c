package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBookUseCase *appbook.CreateBookUseCase
	getBookUseCase    *appbook.GetBookUseCase
	listBooksUseCase  *appbook.ListBooksUseCase
	updateBookUseCase *appbook.UpdateBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase: createBookUseCase,
		getBookUseCase:    getBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		updateBookUseCase: updateBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
	}
}

// CreateBook 新建图书
// @Summary      新建图书
// @Description  新建一本在架图书,请求中的借阅状态会被忽略
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} dto.BookResponse
// @Failure      422 {object} response.Response "参数错误"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	// 2. 调用应用层用例
	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 构建HTTP响应
	response.Success(c, toBookDTO(result))
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  不传page_size时按ID升序返回全部图书;响应头X-Total-Count为符合条件的总数
// @Tags         图书
// @Produce      json
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量(最大100)"
// @Param        keyword   query string false "书名/作者关键词"
// @Success      200 {array} dto.BookResponse
// @Failure      422 {object} response.Response "参数错误"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.BookResponse, len(result.List))
	for i, b := range result.List {
		list[i] = toBookDTO(b)
	}

	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	response.Success(c, list)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} dto.BookResponse
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookDTO(result))
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  只修改传入的书名/作者,借阅状态不受影响
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Success      200 {object} dto.BookResponse
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:     id,
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookDTO(result))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  已借出的图书也可以删除
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Detail
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessDetail(c, "Book deleted")
}

// toBookDTO 应用层DTO → HTTP层DTO
func toBookDTO(b *appbook.BookResponse) *dto.BookResponse {
	return &dto.BookResponse{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		IsBorrowed: b.IsBorrowed,
		BorrowerID: b.BorrowerID,
	}
}
