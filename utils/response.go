// file: utils/response.go
package utils

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

// Response 统一响应包装。code=0 表示成功；
// 1xxx 参数错误，4xxx 认证/权限/不存在，5xxx 服务端错误，6xxx 任务状态冲突，7xxx 分析管线。
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: msg, Data: data})
}

func Error(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, Response{Code: code, Msg: msg})
}
