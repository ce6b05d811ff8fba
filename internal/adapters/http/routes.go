package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/streamhub/account-server/internal/adapters/http/dto"
	"github.com/streamhub/account-server/internal/adapters/http/handler"
	"github.com/streamhub/account-server/internal/adapters/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterConfig struct {
	UserHandler *handler.UserHandler
}

func SetupRoutes(config RouterConfig) *gin.Engine {

	g := gin.New()
	g.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	g.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"https://*", "http://*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.AddRequestID(),
		middleware.LoggingRequestMiddleware(config.UserHandler.Logger),
		middleware.PanicRecoveryMiddleware(config.UserHandler.Logger),
	)

	maxSize := config.UserHandler.MaxAllowedSize

	// auth routes; rate limited since they are the brute-force target
	auth := g.Group("/api/v1/auth")
	auth.Use(middleware.RateLimiterMiddleware(config.UserHandler.RateLimiter, config.UserHandler.Logger))
	{
		auth.Handle("POST", "/register", middleware.CheckContentType(), middleware.CheckContentBody[dto.RegisteredUser](maxSize), config.UserHandler.RegisterHandler)
		auth.Handle("POST", "/login", middleware.CheckContentType(), middleware.CheckContentBody[dto.LoginUser](maxSize), config.UserHandler.LoginHandler)
		auth.Handle("POST", "/refresh", config.UserHandler.JwtRefreshHandler)
	}

	// protected routes
	protected := g.Group("/api/v1")
	protected.Use(middleware.AuthenticateMiddleware(config.UserHandler.JwtHandler))
	{
		protected.Handle("POST", "/auth/logout", config.UserHandler.LogoutHandler)
		protected.Handle("GET", "/users/current-user", config.UserHandler.CurrentUserHandler)
		protected.Handle("POST", "/users/change-password", middleware.CheckContentType(), middleware.CheckContentBody[dto.ChangePassword](maxSize), config.UserHandler.ChangePasswordHandler)
		protected.Handle("PATCH", "/users/update-account", middleware.CheckContentType(), middleware.CheckContentBody[dto.UpdateAccount](maxSize), config.UserHandler.UpdateAccountHandler)
		protected.Handle("PATCH", "/users/avatar", config.UserHandler.UpdateAvatarHandler)
		protected.Handle("PATCH", "/users/cover-image", config.UserHandler.UpdateCoverImageHandler)
		protected.Handle("GET", "/channels/:username", config.UserHandler.ChannelProfileHandler)
		protected.Handle("GET", "/users/watch-history", config.UserHandler.WatchHistoryHandler)
		protected.Handle("POST", "/users/watch-history", middleware.CheckContentType(), middleware.CheckContentBody[dto.RecordWatch](maxSize), config.UserHandler.RecordWatchHandler)
		protected.Handle("POST", "/subscriptions", middleware.CheckContentType(), middleware.CheckContentBody[dto.ToggleSubscription](maxSize), config.UserHandler.ToggleSubscriptionHandler)
	}

	// public routes
	g.Handle("GET", "/health", config.UserHandler.HealthHandler)

	return g
}
