package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inbox-todo/backend/internal/models"
)

// currentUserID は認証ミドルウェアが設定したユーザーIDを取得します。
// 取得できない場合はレスポンスを書き込み、false を返します。
func currentUserID(c *gin.Context) (uint, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return 0, false
	}
	userID, ok := userIDVal.(uint)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type in context"})
		return 0, false
	}
	return userID, true
}

// requestContext はリクエストのコンテキストにタイムアウトを付けます。
func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// writeError はエラーの種類に応じたステータスコードでレスポンスを返します。
// 想定外のエラーは message だけを返し、詳細は出しません。
func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.Is(err, models.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
