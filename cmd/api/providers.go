package main

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/pkg/keylock"
	"github.com/xiebiao/library/pkg/metrics"
)

// App 组装完成的应用
type App struct {
	cfg    *config.Config
	engine *gin.Engine
	db     *gorm.DB
	books  book.Repository
}

func newApp(cfg *config.Config, engine *gin.Engine, db *gorm.DB, books book.Repository) *App {
	return &App{cfg: cfg, engine: engine, db: db, books: books}
}

// provideLocker 按lock.backend创建Key锁
// memory：单进程部署；redis：多实例共享数据库时使用
// Wire教学要点：Provider可以返回cleanup函数，Wire会按依赖的逆序调用
func provideLocker(cfg *config.Config) (keylock.Locker, func(), error) {
	if cfg.Lock.Backend != config.LockBackendRedis {
		slog.Info("使用进程内锁")
		return keylock.WithWaitTimeout(keylock.NewMemoryLocker(), cfg.Lock.WaitTimeout), func() {}, nil
	}

	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Warn("关闭Redis连接失败", "error", err)
		}
	}

	slog.Info("使用Redis分布式锁", "ttl", cfg.Lock.TTL)
	return keylock.WithWaitTimeout(redis.NewLocker(client, cfg.Lock), cfg.Lock.WaitTimeout), cleanup, nil
}

// syncBorrowedGauge 用数据库中的借出数校准books_borrowed，直到ctx结束
func (a *App) syncBorrowedGauge(ctx context.Context) {
	if !a.cfg.Metrics.Enabled {
		return
	}
	metrics.SyncBooksBorrowed(ctx, a.cfg.Metrics.SyncInterval, a.books.CountBorrowed)
}

// close 关闭数据库连接
func (a *App) close() {
	sqlDB, err := a.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Warn("关闭数据库连接失败", "error", err)
	}
}
