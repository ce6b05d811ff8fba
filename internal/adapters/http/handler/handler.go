package handler

import (
	"mime/multipart"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/streamhub/account-server/internal/adapters/http/dto"
	"github.com/streamhub/account-server/internal/adapters/http/middleware"
	"github.com/streamhub/account-server/internal/domain"
	"github.com/streamhub/account-server/internal/usecase"
)

type UserHandler struct {
	AuthSvc        *usecase.AuthService
	AccountSvc     *usecase.AccountService
	ChannelSvc     *usecase.ChannelService
	RateLimiter    *middleware.RedisRateLimiter
	JwtHandler     domain.JwtTokenRepository
	Logger         domain.LoggingRepository
	CookieMaxAge   int
	CookieSecure   bool
	MaxAllowedSize int
	MaxUploadSize  int64
}

func NewUserHandler(
	authsvc *usecase.AuthService,
	accountsvc *usecase.AccountService,
	channelsvc *usecase.ChannelService,
	limiter *middleware.RedisRateLimiter,
	auth domain.JwtTokenRepository,
	logger domain.LoggingRepository,
	cookieMaxAge int,
	cookieSecure bool,
	maxallowedsize int,
	maxuploadsize int64,
) *UserHandler {
	return &UserHandler{
		AuthSvc:        authsvc,
		AccountSvc:     accountsvc,
		ChannelSvc:     channelsvc,
		RateLimiter:    limiter,
		JwtHandler:     auth,
		Logger:         logger,
		CookieMaxAge:   cookieMaxAge,
		CookieSecure:   cookieSecure,
		MaxAllowedSize: maxallowedsize,
		MaxUploadSize:  maxuploadsize,
	}
}

func (h *UserHandler) setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(middleware.AccessTokenCookie, accessToken, h.CookieMaxAge, "/", "", h.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, refreshToken, h.CookieMaxAge, "/", "", h.CookieSecure, true)
}

func (h *UserHandler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.CookieSecure, true)
}

func (h *UserHandler) RegisterHandler(c *gin.Context) {
	req := c.MustGet("payload").(dto.RegisteredUser)

	resp, err := h.AccountSvc.Register(c.Request.Context(), domain.RegisteredUser{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) LoginHandler(c *gin.Context) {
	req := c.MustGet("payload").(dto.LoginUser)

	resp, err := h.AuthSvc.Login(c.Request.Context(), domain.LoginUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}

	h.setTokenCookies(c, resp.AccessToken, resp.RefreshToken)
	h.Logger.Info("http_request_end", "request_id", c.GetString("RequestID"), "status", http.StatusOK)
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) JwtRefreshHandler(c *gin.Context) {
	refreshToken, _ := c.Cookie(middleware.RefreshTokenCookie)
	if refreshToken == "" {
		var req dto.RefreshRequest
		// body is optional when the cookie is present
		_ = c.ShouldBindJSON(&req)
		refreshToken = req.RefreshToken
	}

	resp, err := h.AuthSvc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}

	h.setTokenCookies(c, resp.AccessToken, resp.RefreshToken)
	h.Logger.Info("http_request_end", "request_id", c.GetString("RequestID"), "status", http.StatusOK)
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) LogoutHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	err := h.AuthSvc.Logout(c.Request.Context(), userID)
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}

	h.clearTokenCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *UserHandler) CurrentUserHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	resp, err := h.AccountSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) ChangePasswordHandler(c *gin.Context) {
	req := c.MustGet("payload").(dto.ChangePassword)
	userID := c.GetString(middleware.ContextUserIDKey)

	err := h.AccountSvc.ChangePassword(c.Request.Context(), userID, domain.ChangePassword{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *UserHandler) UpdateAccountHandler(c *gin.Context) {
	req := c.MustGet("payload").(dto.UpdateAccount)
	userID := c.GetString(middleware.ContextUserIDKey)

	resp, err := h.AccountSvc.UpdateAccountDetails(c.Request.Context(), userID, domain.UpdateAccount{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) openFormImage(c *gin.Context, field string) (*usecase.UploadedImage, multipart.File, *dto.HttpError) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		httpErr := dto.HttpError{Message: "missing file field " + field, Code: domain.ErrCodeValidation, StatusCode: http.StatusBadRequest}
		return nil, nil, &httpErr
	}
	if fileHeader.Size > h.MaxUploadSize {
		httpErr := dto.HttpError{Message: "file too large", Code: domain.ErrCodeValidation, StatusCode: http.StatusRequestEntityTooLarge}
		return nil, nil, &httpErr
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpErr := dto.HttpError{Message: "failed to read uploaded file", Code: domain.ErrCodeInternal, StatusCode: http.StatusInternalServerError}
		return nil, nil, &httpErr
	}

	return &usecase.UploadedImage{
		ContentType: fileHeader.Header.Get("Content-Type"),
		FileName:    fileHeader.Filename,
		Size:        fileHeader.Size,
		Body:        file,
	}, file, nil
}

func (h *UserHandler) UpdateAvatarHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	img, file, httpErr := h.openFormImage(c, "avatar")
	if httpErr != nil {
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}
	defer file.Close()

	resp, err := h.AccountSvc.UpdateAvatar(c.Request.Context(), userID, *img)
	if err != nil {
		mapped := dto.MapErr(err)
		c.JSON(mapped.StatusCode, mapped)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateCoverImageHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	img, file, httpErr := h.openFormImage(c, "cover_image")
	if httpErr != nil {
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}
	defer file.Close()

	resp, err := h.AccountSvc.UpdateCoverImage(c.Request.Context(), userID, *img)
	if err != nil {
		mapped := dto.MapErr(err)
		c.JSON(mapped.StatusCode, mapped)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) ChannelProfileHandler(c *gin.Context) {
	username := c.Param("username")
	viewerID := c.GetString(middleware.ContextUserIDKey)

	resp, err := h.ChannelSvc.GetChannelProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) WatchHistoryHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	history, err := h.ChannelSvc.GetWatchHistory(c.Request.Context(), userID)
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *UserHandler) RecordWatchHandler(c *gin.Context) {
	req := c.MustGet("payload").(dto.RecordWatch)
	userID := c.GetString(middleware.ContextUserIDKey)

	err := h.ChannelSvc.RecordWatch(c.Request.Context(), userID, req.VideoID)
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "recorded"})
}

func (h *UserHandler) ToggleSubscriptionHandler(c *gin.Context) {
	req := c.MustGet("payload").(dto.ToggleSubscription)
	userID := c.GetString(middleware.ContextUserIDKey)

	subscribed, err := h.ChannelSvc.ToggleSubscription(c.Request.Context(), userID, req.ChannelID)
	if err != nil {
		httpErr := dto.MapErr(err)
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": subscribed})
}

func (h *UserHandler) HealthHandler(c *gin.Context) {
	var memStat runtime.MemStats
	runtime.ReadMemStats(&memStat)

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"memory": gin.H{
			"allocated_heap_objects_mb": memStat.Alloc / 1024 / 1024,
			"gc_cycles":                 memStat.NumGC,
			"num_goroutines":            runtime.NumGoroutine(),
		},
	})
}
