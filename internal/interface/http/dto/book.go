package dto

// IDUri 路径参数 /:id
// 非数字、负数返回422
type IDUri struct {
	ID *uint `uri:"id" binding:"required" example:"1"`
}

// CreateBookRequest HTTP新建图书请求
// validator tag说明:
// - required: 必填且不能为空字符串,全空白由领域层校验
// - 不限制长度
// 请求体中的is_borrowed/borrower_id会被忽略,新书总是在架
type CreateBookRequest struct {
	Title  string `json:"title" binding:"required" example:"Dune"`
	Author string `json:"author" binding:"required" example:"Frank Herbert"`
}

// UpdateBookRequest HTTP修改图书请求
// 字段为null或缺省时保持原值
type UpdateBookRequest struct {
	Title  *string `json:"title" binding:"omitempty,min=1" example:"Dune Messiah"`
	Author *string `json:"author" binding:"omitempty,min=1" example:"Frank Herbert"`
}

// ListBooksRequest HTTP图书列表请求
// 不传page_size时返回全部图书
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Dune"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID         uint   `json:"id" example:"1"`
	Title      string `json:"title" example:"Dune"`
	Author     string `json:"author" example:"Frank Herbert"`
	IsBorrowed bool   `json:"is_borrowed" example:"false"`
	BorrowerID *uint  `json:"borrower_id" example:"2"`
}

// BorrowQuery 借书查询参数 ?user_id=N
type BorrowQuery struct {
	UserID *uint `form:"user_id" binding:"required" example:"2"`
}
