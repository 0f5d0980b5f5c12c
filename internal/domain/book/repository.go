package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法都应从ctx中识别事务(见 Transactor),以便借阅流程在同一事务内完成
type Repository interface {
	// Create 创建图书,回填ID
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE),必须在事务中调用
	LockByID(ctx context.Context, id uint) (*Book, error)

	// List 查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// UpdateInfo 只更新书名和作者,不触碰借阅状态
	UpdateInfo(ctx context.Context, book *Book) error

	// UpdateLending 条件更新借阅状态(CAS)
	// 仅当数据库中的is_borrowed仍等于wasBorrowed时写入book的新状态;
	// 否则返回ErrAlreadyBorrowed/ErrNotBorrowed,图书已删除返回ErrBookNotFound
	UpdateLending(ctx context.Context, book *Book, wasBorrowed bool) error

	// Delete 删除图书(软删除),不存在返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error

	// CountBorrowed 统计借出中的图书数量(不含已删除)
	CountBorrowed(ctx context.Context) (int64, error)
}

// ListParams 列表查询参数
// Page和PageSize都为0时返回全部图书(按ID升序)
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索标题、作者)
}

// Paged 是否分页查询
func (p ListParams) Paged() bool {
	return p.PageSize > 0
}
