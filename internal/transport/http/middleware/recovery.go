package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "bookstore-api/internal/transport/http/response"
)

// RecoveryJSON 交给 ginzap.CustomRecoveryWithZap；panic 详情由 ginzap 记日志
func RecoveryJSON(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, resp.MsgContactAdmin))
}
