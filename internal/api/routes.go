package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"inkwell/internal/api/middleware"
	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// RegisterRoutes 注册全部业务路由。
// 会话解析与角色门控作为引擎级中间件挂载，覆盖每一条路径。
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	dataStore := store.New(db)
	pages := cache.NewPages(redisClient, 0)
	events := NewRedisEvents(redisClient)

	blogHandler := NewBlogHandler(dataStore, pages, asynqClient, events, logger)
	tagHandler := NewTagHandler(dataStore, pages)
	authHandler := NewAuthHandler(dataStore, authService, logger, cfg.Auth.CookieDomain)
	assetHandler := NewAssetHandler(storageClient, logger, cfg.Clamd.Addr)
	wsHandler := NewWsHandler(redisClient, logger, cfg.API.AllowedOrigins)

	router.Use(
		middleware.SessionMiddleware(authService),
		middleware.RoleGateMiddleware(middleware.DefaultRouteSets()),
	)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/oauth",
				middleware.InternalSecretMiddleware(cfg.Auth.InternalSecret),
				authHandler.OAuthSignIn,
			)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/session", authHandler.Session)
		}

		blogGroup := v1.Group("/blogs")
		{
			blogGroup.GET("", blogHandler.FetchBlogs)
			blogGroup.GET("/read/:id", cachePage(pages), blogHandler.FetchBlog)
			blogGroup.GET("/tag/:id", blogHandler.FetchBlogsOnTag)
			blogGroup.POST("/create", blogHandler.CreateBlog)
			blogGroup.PUT("/edit/:id", blogHandler.UpdateBlog)
			blogGroup.DELETE("/delete/:id", blogHandler.DeleteBlog)
		}

		tagGroup := v1.Group("/tags")
		{
			tagGroup.GET("", tagHandler.FetchAllTags)
			tagGroup.GET("/:id", cachePage(pages), tagHandler.FetchTag)
			tagGroup.POST("/create", tagHandler.CreateTag)
		}

		v1.POST("/assets/upload", assetHandler.UploadThumbnail)
	}
}
