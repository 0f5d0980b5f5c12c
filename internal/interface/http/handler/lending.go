package handler

import (
	"github.com/gin-gonic/gin"

	applending "github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// LendingHandler 借阅HTTP处理器
type LendingHandler struct {
	borrowBookUseCase *applending.BorrowBookUseCase
	returnBookUseCase *applending.ReturnBookUseCase
}

// NewLendingHandler 创建借阅处理器
func NewLendingHandler(
	borrowBookUseCase *applending.BorrowBookUseCase,
	returnBookUseCase *applending.ReturnBookUseCase,
) *LendingHandler {
	return &LendingHandler{
		borrowBookUseCase: borrowBookUseCase,
		returnBookUseCase: returnBookUseCase,
	}
}

// BorrowBook 借书
// @Summary      借书
// @Description  校验顺序:图书存在 → 图书在架 → 用户存在
// @Tags         借阅
// @Produce      json
// @Param        id      path  int true "图书ID"
// @Param        user_id query int true "借阅人用户ID"
// @Success      200 {object} response.Detail
// @Failure      400 {object} response.Response "图书已借出"
// @Failure      404 {object} response.Response "图书或用户不存在"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /books/{id}/borrow [post]
func (h *LendingHandler) BorrowBook(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var query dto.BorrowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, err)
		return
	}

	_, err := h.borrowBookUseCase.Execute(c.Request.Context(), applending.BorrowBookRequest{
		BookID: id,
		UserID: *query.UserID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessDetail(c, "Book borrowed")
}

// ReturnBook 还书
// @Summary      还书
// @Tags         借阅
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Detail
// @Failure      400 {object} response.Response "图书未借出"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id}/return [post]
func (h *LendingHandler) ReturnBook(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if _, err := h.returnBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessDetail(c, "Book returned")
}
