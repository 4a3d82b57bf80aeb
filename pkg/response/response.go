// Package response 统一 HTTP JSON 响应格式：成功时 success=true，失败时带 code 与 message
package response

import (
	"github.com/gin-gonic/gin"
)

// Success 返回成功响应，body 中的字段与 success 平铺在同一层
func Success(c *gin.Context, status int, body gin.H) {
	out := gin.H{"success": true}
	for k, v := range body {
		out[k] = v
	}
	c.JSON(status, out)
}

// Error 返回失败响应
func Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}
