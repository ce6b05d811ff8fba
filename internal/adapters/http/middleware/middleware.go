package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/streamhub/account-server/internal/adapters/http/dto"
	"github.com/streamhub/account-server/internal/adapters/http/utils"
	"github.com/streamhub/account-server/internal/domain"
	"github.com/streamhub/account-server/internal/observability"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	ContextUserIDKey   = "user_id"
)

// ExtractAccessToken pulls the access token from the cookie or the
// Authorization header; the core only cares about the raw string.
func ExtractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}

// AuthenticateMiddleware gates protected routes. It is a pure cryptographic
// check: no store round-trip happens here.
func AuthenticateMiddleware(auth domain.JwtTokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractAccessToken(c)
		if tokenString == "" {
			httpErr := dto.MapDomainErrToHttpErr(domain.ErrNoToken)
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			return
		}

		identity, err := auth.VerifyAccessToken(tokenString)
		if err != nil {
			httpErr := dto.MapErr(err)
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			return
		}

		c.Set(ContextUserIDKey, identity.UserID)
		c.Request = c.Request.WithContext(observability.WithUserID(c.Request.Context(), identity.UserID))
		c.Next()
	}
}

func AddRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-Id", requestID)
		c.Set("RequestID", requestID)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

func CheckContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		contentType := c.GetHeader("Content-Type")

		parts := strings.Split(contentType, ";")
		if len(parts) == 0 || strings.TrimSpace(strings.ToLower(parts[0])) != "application/json" {
			httpErr := dto.HttpError{Message: "invalid content type, expected application/json", Code: domain.ErrCodeValidation, StatusCode: http.StatusBadRequest}
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			return
		}
		c.Next()
	}
}

func CheckContentBody[T any](maxsize int) gin.HandlerFunc {
	return func(c *gin.Context) {

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(maxsize))

		var u T

		err := c.ShouldBindJSON(&u)

		if err != nil {
			var syntaxErr *json.SyntaxError
			var unmarshalTypeErr *json.UnmarshalTypeError

			switch {

			case errors.Is(err, io.EOF):
				httpErr := dto.HttpError{Message: "body must not be empty", Code: domain.ErrCodeValidation, StatusCode: http.StatusBadRequest}
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
				return

			case errors.Is(err, io.ErrUnexpectedEOF):
				httpErr := dto.HttpError{Message: "body contains badly-formed json", Code: domain.ErrCodeValidation, StatusCode: http.StatusBadRequest}
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
				return

			case err.Error() == "http: request body too large":
				httpErr := dto.HttpError{Message: fmt.Sprintf("body must not be larger than %d bytes", maxsize), Code: domain.ErrCodeValidation, StatusCode: http.StatusRequestEntityTooLarge}
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
				return

			case errors.As(err, &syntaxErr):
				httpErr := dto.HttpError{Message: fmt.Sprintf("body contains badly-formed json at character %d", syntaxErr.Offset), Code: domain.ErrCodeValidation, StatusCode: http.StatusBadRequest}
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
				return

			case errors.As(err, &unmarshalTypeErr):
				httpErr := dto.HttpError{Message: fmt.Sprintf("body contains incorrect json type for %q at %d", unmarshalTypeErr.Field, unmarshalTypeErr.Offset), Code: domain.ErrCodeValidation, StatusCode: http.StatusBadRequest}
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
				return

			default:
				httpErr := dto.HttpError{Message: fmt.Sprintf("error happened: %s", err.Error()), Code: domain.ErrCodeValidation, StatusCode: http.StatusBadRequest}
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
				return
			}
		}

		validate := validator.New()
		err = validate.RegisterValidation("password_strength", utils.PasswordValidator)
		if err != nil {
			httpErr := dto.HttpError{Message: "failed to register validation", Code: domain.ErrCodeInternal, StatusCode: http.StatusInternalServerError}
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			return
		}
		err = validate.Struct(u)
		if err != nil {
			httpErr := dto.HttpError{Message: err.Error(), Code: domain.ErrCodeValidation, StatusCode: http.StatusBadRequest}
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			return
		}
		c.Set("payload", u)
		c.Next()
	}
}

func LoggingRequestMiddleware(logger domain.LoggingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("http_request_start",
			"request_id", c.GetString("RequestID"),
			"method", c.Request.Method,
			"user-agent", c.Request.UserAgent(),
			"path", c.FullPath())
		c.Next()
	}
}

func PanicRecoveryMiddleware(logger domain.LoggingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("internal server error",
					"request_id", c.GetString("RequestID"),
					"method", c.Request.Method,
					"path", c.FullPath(),
					"reason", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)

				httpErr := dto.HttpError{Message: "internal server error", Code: domain.ErrCodeInternal, StatusCode: http.StatusInternalServerError}
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			}
		}()

		c.Next()
	}
}
