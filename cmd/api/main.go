// @title           Library Lending API
// @version         1.0
// @description     图书借阅记录服务:图书、用户与借阅状态管理
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/tracing"
)

// main 主程序入口
// 启动顺序：配置 → 日志 → 链路追踪 → 依赖注入（wire_gen.go） → HTTP服务
func main() {
	if err := run(); err != nil {
		slog.Error("服务异常退出", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	// 2. 初始化日志
	logger.New(cfg.Log)
	slog.Info("配置加载成功",
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"database", cfg.Database.Driver,
		"lock", cfg.Lock.Backend,
	)

	// 3. 链路追踪（未开启时使用otel默认的no-op Provider）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			return fmt.Errorf("初始化链路追踪失败: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("关闭链路追踪失败", "error", err)
			}
		}()
		slog.Info("链路追踪已开启", "endpoint", cfg.Tracing.Endpoint)
	}

	// 4. 依赖注入
	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer app.close()
	defer cleanup()

	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()
	go app.syncBorrowedGauge(syncCtx)

	// 5. 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("服务启动成功", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 6. 优雅关闭：等待进行中的请求处理完成
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("启动服务失败: %w", err)
	case sig := <-quit:
		slog.Info("收到退出信号，正在关闭服务", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}

	slog.Info("服务已关闭")
	return nil
}
