// Package logger 基于log/slog的日志初始化
//
// console格式使用humanlog输出便于阅读的彩色日志（开发环境），
// json格式输出结构化日志（生产环境接入日志采集）。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lepinkainen/humanlog"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// New 根据配置创建Logger并设置为slog默认Logger
func New(cfg config.LogConfig) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, cfg))
	slog.SetDefault(logger)
	return logger
}

// NewHandler 创建日志Handler
func NewHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	level := ParseLevel(cfg.Level)

	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return humanlog.NewHandler(w, &humanlog.Options{Level: level})
}

// ParseLevel 解析日志级别，无法识别时使用info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
