// Package metrics 提供基于Prometheus的指标收集
//
// # 指标分类
//
// **1. HTTP指标**（所有请求，由 GinMiddleware 记录）
//   - http_requests_total{method,path,status}：请求总数
//   - http_request_duration_seconds{method,path}：请求耗时
//   - http_requests_in_progress：正在处理的请求数
//
// **2. 借阅指标**（借阅引擎，由 ObserveLending 记录）
//   - lending_operations_total{op,result}：借出/归还次数，result为结果分类
//   - lending_operation_duration_seconds{op}：借出/归还耗时（含等锁时间）
//   - books_borrowed：当前借出中的图书数量
//
// books_borrowed在进程内按借出/归还增减，多实例部署时每个实例只看到自己处理的请求，
// 由 SyncBooksBorrowed 定期用数据库中的借出数校准。
//
// # 使用示例
//
//	metrics.InitMetrics()
//	r.Use(metrics.GinMiddleware())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// path标签使用路由模板（/books/:id），而不是原始URL，避免标签基数爆炸。
package metrics

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅操作类型（op标签）
const (
	OpBorrow = "borrow"
	OpReturn = "return"
)

// 借阅结果分类（result标签）
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

var (
	initOnce sync.Once

	// =========================================
	// HTTP指标
	// =========================================

	// HTTPRequestsTotal HTTP请求总数
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// =========================================
	// 借阅指标
	// =========================================

	// LendingOperationsTotal 借阅操作总数
	LendingOperationsTotal *prometheus.CounterVec

	// LendingOperationDuration 借阅操作耗时
	LendingOperationDuration *prometheus.HistogramVec

	// BooksBorrowed 当前借出中的图书数量
	// 启动时和每个校准周期用数据库中的借出数覆盖（SyncBooksBorrowed），期间按借出/归还增减
	BooksBorrowed prometheus.Gauge
)

// InitMetrics 初始化所有指标
// 注意：promauto注册到默认Registry，重复注册会panic，所以只执行一次
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		LendingOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lending_operations_total",
				Help: "借阅操作总数",
			},
			[]string{"op", "result"},
		)

		LendingOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lending_operation_duration_seconds",
				Help:    "借阅操作耗时（秒）",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"op"},
		)

		BooksBorrowed = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "books_borrowed",
				Help: "当前借出中的图书数量",
			},
		)
	})
}

// =========================================
// 辅助函数
// =========================================

// IncCounterVec 递增CounterVec
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// Classify 按业务错误码对借阅结果分类
func Classify(err error) string {
	if err == nil {
		return ResultSuccess
	}
	if !apperrors.IsAppError(err) {
		return ResultError
	}
	switch apperrors.GetAppError(err).HTTPStatus() {
	case 400, 409:
		return ResultConflict
	case 404:
		return ResultNotFound
	case 422:
		return ResultInvalid
	default:
		return ResultError
	}
}

// ObserveLending 记录一次借阅操作
// 成功借出时books_borrowed加1，成功归还时减1
func ObserveLending(op string, err error, start time.Time) {
	InitMetrics()

	result := Classify(err)
	IncCounterVec(LendingOperationsTotal, map[string]string{"op": op, "result": result})
	ObserveHistogramVec(LendingOperationDuration, map[string]string{"op": op}, time.Since(start).Seconds())

	if result != ResultSuccess {
		return
	}
	switch op {
	case OpBorrow:
		IncGauge(BooksBorrowed)
	case OpReturn:
		DecGauge(BooksBorrowed)
	}
}

// GinMiddleware HTTP指标中间件
func GinMiddleware() gin.HandlerFunc {
	InitMetrics()

	return func(c *gin.Context) {
		start := time.Now()
		IncGauge(HTTPRequestsInProgress)
		defer DecGauge(HTTPRequestsInProgress)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		IncCounterVec(HTTPRequestsTotal, map[string]string{
			"method": method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		ObserveHistogramVec(HTTPRequestDuration, map[string]string{
			"method": method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}

// SyncBooksBorrowed 用count的结果校准books_borrowed
// 立即执行一次，之后每隔interval执行，直到ctx结束；interval<=0时只执行一次
func SyncBooksBorrowed(ctx context.Context, interval time.Duration, count func(ctx context.Context) (int64, error)) {
	InitMetrics()

	calibrate := func() {
		n, err := count(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.WarnContext(ctx, "统计借出图书失败", "error", err)
			}
			return
		}
		SetGauge(BooksBorrowed, float64(n))
	}

	calibrate()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			calibrate()
		}
	}
}
