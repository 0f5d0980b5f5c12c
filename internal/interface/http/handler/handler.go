// Package handler HTTP处理器
//
// Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应，
// 不包含业务逻辑（业务逻辑在domain和application层）。
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// bindID 解析路径参数id，失败时已写入422响应
func bindID(c *gin.Context) (uint, bool) {
	var uri dto.IDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ValidationError(c, err)
		return 0, false
	}
	return *uri.ID, true
}
