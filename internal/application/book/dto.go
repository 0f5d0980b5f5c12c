package book

import (
	"github.com/xiebiao/library/internal/domain/book"
)

// BookResponse 图书响应DTO
// borrower_id未借出时为null
type BookResponse struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	IsBorrowed bool   `json:"is_borrowed"`
	BorrowerID *uint  `json:"borrower_id"`
}

// NewBookResponse 领域实体 → 响应DTO
func NewBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		IsBorrowed: b.IsBorrowed,
		BorrowerID: b.BorrowerID,
	}
}
