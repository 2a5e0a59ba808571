// Package response writes the JSON envelope shared by every HTTP endpoint of the bot.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse mirrors the HTTP status in Code so webhook delivery logs stay readable.
type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Code: 0, Message: "ok", Data: data})
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, APIResponse{Code: httpStatus, Message: message})
}

// Abort writes the error envelope and stops the middleware chain.
func Abort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, APIResponse{Code: httpStatus, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	Error(c, http.StatusServiceUnavailable, message)
}
