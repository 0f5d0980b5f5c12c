package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Response 统一错误响应结构
// 设计说明：
// 1. 成功时直接返回资源本身（图书、用户、列表），保持与旧版API的兼容
// 2. 失败时返回Code（业务错误码）和Message（用户友好的提示信息）
// 3. HTTP状态码由业务错误码推导，见 apperrors.AppError.HTTPStatus
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Detail 操作确认响应（删除、借出、归还）
type Detail struct {
	Detail string `json:"detail"`
}

// Success 成功响应（200 + 资源本身）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SuccessDetail 成功响应（200 + 确认信息）
func SuccessDetail(c *gin.Context, detail string) {
	c.JSON(http.StatusOK, Detail{Detail: detail})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	result, err := uc.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只记日志，不返回给客户端
	if appErr.Err != nil {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", appErr.Err,
			"request_id", c.GetString("request_id"),
		)
	}
	_ = c.Error(appErr)

	c.JSON(appErr.HTTPStatus(), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}

// ValidationError 参数绑定/校验失败（422）
func ValidationError(c *gin.Context, err error) {
	Error(c, apperrors.Invalid("参数错误: "+err.Error()))
}
