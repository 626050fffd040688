package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the payload map of a successful API reply.
type Response map[string]interface{}

// Business error codes.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeServerErr    = 50001
)

// Success writes the unified success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the unified error envelope.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// ErrorWithDetails writes the error envelope plus structured detail, used for
// batch validation failures where the caller needs per-row issues.
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, msg string, details interface{}) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"details": details,
	})
}
