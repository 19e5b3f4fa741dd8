package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inbox-todo/backend/internal/models"
	"inbox-todo/backend/internal/repositories"
	"inbox-todo/backend/internal/services"
)

const oauthStateCookie = "oauth_state"

// AuthHandler はログインとセッション関連のハンドラーを管理します。
type AuthHandler struct {
	oauthService *services.OAuthService
	userService  *services.UserService
	jwtService   *services.JWTService
	log          *slog.Logger
}

// NewAuthHandler は新しいAuthHandlerを作成します。
func NewAuthHandler(oauthService *services.OAuthService, userService *services.UserService, jwtService *services.JWTService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{oauthService: oauthService, userService: userService, jwtService: jwtService, log: log}
}

// LoginHandler はstateをCookieに保存し、IDプロバイダーの認可画面にリダイレクトします。
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, h.oauthService.AuthCodeURL(state))
}

// CallbackHandler は認可コードを検証してユーザーを登録し、セッショントークンを返します。
func (h *AuthHandler) CallbackHandler(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code is required"})
		return
	}

	identity, err := h.oauthService.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Warn("oauth exchange failed", "provider", h.oauthService.Provider(), "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
		return
	}

	user, err := h.userService.SignIn(c.Request.Context(), h.oauthService.Provider(), identity)
	if err != nil {
		h.log.Error("failed to sign in user", "provider", h.oauthService.Provider(), "email", identity.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		h.log.Error("failed to generate token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// MeHandler はログイン中のユーザーを返します。
func (h *AuthHandler) MeHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			writeError(c, models.ErrAuthenticationRequired, "")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user)
}
