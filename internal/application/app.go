package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	router "github.com/streamhub/account-server/internal/adapters/http"
	"github.com/streamhub/account-server/internal/adapters/http/handler"
	"github.com/streamhub/account-server/internal/adapters/http/middleware"
	"github.com/streamhub/account-server/internal/config"
	"github.com/streamhub/account-server/internal/infrastructure/repository/postgres"
	"github.com/streamhub/account-server/internal/infrastructure/repository/redis"
	"github.com/streamhub/account-server/internal/infrastructure/security"
	"github.com/streamhub/account-server/internal/infrastructure/storage"
	"github.com/streamhub/account-server/internal/usecase"
	"github.com/streamhub/account-server/pkg/logger"
)

type App struct {
	Cfg *config.Config
}

func (a App) Run() {

	rootctx, rootcancel := context.WithCancel(context.Background())
	defer rootcancel()

	logger := logger.NewLogger(a.Cfg.LogFile)

	dbPool, err := postgres.OpenDatabaseConnPool(a.Cfg.DatabaseDSN)
	if err != nil {
		logger.Error("database connection failed", "reason", err.Error())
		panic(err)
	}
	defer dbPool.Close()

	redisConn, err := redis.ConnectToRedis(a.Cfg.RedisAddr, a.Cfg.RedisDB)
	if err != nil {
		logger.Error("redis connection failed", slog.String("reason", err.Error()))
		panic(err)
	}
	defer redisConn.Close()

	fileStorage, err := storage.NewS3Storage(rootctx, storage.S3Config{
		Region:        a.Cfg.S3Region,
		Bucket:        a.Cfg.S3Bucket,
		Endpoint:      a.Cfg.S3Endpoint,
		AccessKey:     a.Cfg.S3AccessKey,
		SecretKey:     a.Cfg.S3SecretKey,
		PublicBaseURL: a.Cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Error("object storage setup failed", "reason", err.Error())
		panic(err)
	}

	bcryptPasswordHasher := security.Hasher{Cost: a.Cfg.BcryptCost}

	jwttoken := security.JwtAuth{
		AccessSecret:  []byte(a.Cfg.JwtAccessSecret),
		RefreshSecret: []byte(a.Cfg.JwtRefreshSecret),
		AccessTTL:     time.Duration(a.Cfg.AccessTokenTTLMin) * time.Minute,
		RefreshTTL:    time.Duration(a.Cfg.RefreshTokenTTLHour) * time.Hour,
		Issuer:        a.Cfg.JwtISS,
	}

	ratelimiter := middleware.NewRedisRateLimiter(
		redisConn, a.Cfg.RataLimitCapacity, a.Cfg.RataLimitFillRate,
		time.Duration(a.Cfg.RateLimitTTL)*time.Second)

	UserRepo := postgres.NewUserRepo(dbPool)
	ChannelRepo := postgres.NewChannelRepo(dbPool)

	authSvc := usecase.NewAuthService(UserRepo, bcryptPasswordHasher, jwttoken, logger)
	accountSvc := usecase.NewAccountService(UserRepo, bcryptPasswordHasher, fileStorage, logger)
	channelSvc := usecase.NewChannelService(ChannelRepo, logger)

	refreshCookieMaxAge := int((time.Duration(a.Cfg.RefreshTokenTTLHour) * time.Hour).Seconds())

	h := handler.NewUserHandler(authSvc, accountSvc, channelSvc, ratelimiter, jwttoken, logger,
		refreshCookieMaxAge, true, a.Cfg.MaxAllowedSize, a.Cfg.MaxUploadSize)

	routerCfg := router.RouterConfig{UserHandler: h}

	g := router.SetupRoutes(routerCfg)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", a.Cfg.ServerHost, a.Cfg.ServerPort),
		Handler: g,
	}

	go func() {
		serverErr := server.ListenAndServe()
		if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
			logger.Error("failed to start the server", "reason", serverErr.Error())
		}
	}()
	logger.Info("server started", "addr", server.Addr)

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan

	shutdownctx, shutdowncancelFunc := context.WithTimeout(context.Background(), time.Duration(a.Cfg.ServerShutdownTimeout)*time.Second)
	defer shutdowncancelFunc()
	if err := server.Shutdown(shutdownctx); err != nil {
		logger.Error("server closed with error", "reason", err.Error())
	}

	logger.Info("check number of goroutine", "number", runtime.NumGoroutine())

}
