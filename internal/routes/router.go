// Package routesはroutingを行います。
package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inbox-todo/backend/internal/config"
	"inbox-todo/backend/internal/database"
	"inbox-todo/backend/internal/handlers"
	"inbox-todo/backend/internal/repositories"
	"inbox-todo/backend/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *gorm.DB, cfg config.Config, log *slog.Logger) (*gin.Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	jwtService, err := services.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	// リポジトリ
	itemRepo := repositories.NewItemRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// サービス
	itemService := services.NewItemService(itemRepo, log, loc)
	userService := services.NewUserService(userRepo)
	oauthService := services.NewOAuthService(cfg.Auth.OAuth)

	// ハンドラー
	itemHandler := handlers.NewItemHandler(itemService, cfg.HTTP.Timeout)
	authHandler := handlers.NewAuthHandler(oauthService, userService, jwtService, log)

	r := gin.Default()

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.HTTP.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// ルーティング
	r.GET("/api/hello", HelloHandler)
	r.GET("/api/dbcheck", func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})
	r.GET("/api/auth/login", authHandler.LoginHandler)
	r.GET("/api/auth/callback", authHandler.CallbackHandler)

	authorized := r.Group("/api")
	authorized.Use(AuthMiddleware(jwtService))
	{
		authorized.GET("/me", authHandler.MeHandler)

		authorized.GET("/inbox", itemHandler.ListInboxHandler)
		authorized.POST("/inbox", itemHandler.CreateInboxItemHandler)
		authorized.GET("/backlog", itemHandler.ListBacklogHandler)
		authorized.POST("/backlog", itemHandler.CreateBacklogItemHandler)

		authorized.GET("/items/:id", itemHandler.GetItemHandler)
		authorized.PATCH("/items/:id", itemHandler.UpdateItemHandler)
		authorized.DELETE("/items/:id", itemHandler.DeleteItemHandler)
		authorized.POST("/items/:id/cycle", itemHandler.CycleItemHandler)
		authorized.POST("/items/:id/inbox", itemHandler.MoveToInboxHandler)
		authorized.POST("/items/:id/backlog", itemHandler.MoveToBacklogHandler)
	}

	return r, nil
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from Go Backend!"})
}
