package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现(GORM)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 所有查询都通过dbFrom(ctx)参与调用方的事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := toBookModel(b)

	// 2. 插入数据库
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, notFoundOr(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// LockByID 悲观锁查询图书
// mysql: SELECT ... FOR UPDATE 锁定行直到事务结束
// sqlite: 方言忽略行锁,由单写连接 + 事务保证串行
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error
	if err != nil {
		return nil, notFoundOr(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// List 查询图书列表
// 不分页时返回全部图书(按ID升序),分页时额外返回总数
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var (
		models []BookModel
		total  int64
	)

	query := dbFrom(ctx, r.db).Model(&BookModel{})

	// 关键词搜索(搜索标题、作者)
	// 关键词按字面匹配,%和_不是通配符
	if params.Keyword != "" {
		keyword := "%" + escapeLike(params.Keyword) + "%"
		query = query.Where("title LIKE ? ESCAPE '!' OR author LIKE ? ESCAPE '!'", keyword, keyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	query = query.Order("id ASC")
	if params.Paged() {
		page := params.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(params.PageSize).Offset((page - 1) * params.PageSize)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

// UpdateInfo 只更新书名和作者
// 不使用Save:Save会写回全部字段,可能覆盖并发借阅写入的is_borrowed
func (r *bookRepository) UpdateInfo(ctx context.Context, b *book.Book) error {
	result := dbFrom(ctx, r.db).
		Model(&BookModel{ID: b.ID}).
		Select("title", "author", "updated_at").
		Updates(&BookModel{
			Title:     b.Title,
			Author:    b.Author,
			UpdatedAt: b.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	return nil
}

// UpdateLending 条件更新借阅状态
// UPDATE books SET is_borrowed = ?, borrower_id = ? WHERE id = ? AND is_borrowed = ?
func (r *bookRepository) UpdateLending(ctx context.Context, b *book.Book, wasBorrowed bool) error {
	db := dbFrom(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", b.ID).
		Where("is_borrowed = ?", wasBorrowed).
		Updates(map[string]interface{}{
			"is_borrowed": b.IsBorrowed,
			"borrower_id": b.BorrowerID,
			"updated_at":  b.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新借阅状态失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在,或者状态已被其他请求改变
		// 再查一次确定原因
		var model BookModel
		if err := db.First(&model, b.ID).Error; err != nil {
			return notFoundOr(err, "查询图书失败")
		}
		if wasBorrowed {
			return book.ErrNotBorrowed
		}
		return book.ErrAlreadyBorrowed
	}

	return nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&BookModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// CountBorrowed 统计借出中的图书数量
func (r *bookRepository) CountBorrowed(ctx context.Context) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&BookModel{}).Where("is_borrowed = ?", true).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计借出图书失败")
	}
	return count, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		IsBorrowed: b.IsBorrowed,
		BorrowerID: b.BorrowerID,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:         model.ID,
		Title:      model.Title,
		Author:     model.Author,
		IsBorrowed: model.IsBorrowed,
		BorrowerID: model.BorrowerID,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// notFoundOr 记录不存在时返回ErrBookNotFound,其他错误包装为内部错误
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book.ErrBookNotFound
	}
	return apperrors.Wrap(err, message)
}
