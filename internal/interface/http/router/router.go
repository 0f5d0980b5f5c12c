// Package router 注册HTTP路由
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/library/docs" // Swagger文档(swag init生成)
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/response"
)

// New 创建并配置Gin引擎
// 路由与旧版API保持一致（没有/api/v1前缀）
func New(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	userHandler *handler.UserHandler,
	lendingHandler *handler.LendingHandler,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	if cfg.Metrics.Enabled {
		r.Use(metrics.GinMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Swagger文档路由
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 图书模块
	books := r.Group("/books")
	{
		books.GET("", bookHandler.ListBooks)
		books.POST("", bookHandler.CreateBook)
		books.GET("/:id", bookHandler.GetBook)
		books.PUT("/:id", bookHandler.UpdateBook)
		books.DELETE("/:id", bookHandler.DeleteBook)

		// 借阅
		books.POST("/:id/borrow", lendingHandler.BorrowBook)
		books.POST("/:id/return", lendingHandler.ReturnBook)
	}

	// 用户模块（没有修改和删除）
	users := r.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
	}

	r.NoRoute(func(c *gin.Context) {
		response.ErrorWithCode(c, apperrors.ErrCodeNotFound, "Not Found")
	})

	return r
}
