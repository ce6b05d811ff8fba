package dto

import (
	"errors"
	"net/http"

	"github.com/streamhub/account-server/internal/domain"
)

type HttpError struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	StatusCode int    `json:"status_code"`
}

func (e *HttpError) Error() string {
	return e.Message
}

func MapErr(err error) HttpError {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return MapDomainErrToHttpErr(de)
	}
	return HttpError{
		Message:    "internal server error",
		Code:       domain.ErrCodeInternal,
		StatusCode: http.StatusInternalServerError,
	}
}

func MapDomainErrToHttpErr(err *domain.DomainError) HttpError {
	httpErr := HttpError{Message: err.Message, Code: err.Code}

	switch err.Code {
	case domain.ErrCodeValidation:
		httpErr.StatusCode = http.StatusBadRequest
	case domain.ErrCodeNotFound:
		httpErr.StatusCode = http.StatusNotFound
	case domain.ErrCodeUnauthorized,
		domain.ErrCodeUnauthenticated,
		domain.ErrCodeInvalidToken,
		domain.ErrCodeTokenExpired,
		domain.ErrCodeTokenRevoked:
		httpErr.StatusCode = http.StatusUnauthorized
	case domain.ErrCodeForbidden:
		httpErr.StatusCode = http.StatusForbidden
	case domain.ErrCodeConflict:
		httpErr.StatusCode = http.StatusConflict
	case domain.ErrCodeRateLimited:
		httpErr.StatusCode = http.StatusTooManyRequests
	case domain.ErrCodeExternal:
		httpErr.StatusCode = http.StatusServiceUnavailable
	default:
		httpErr.StatusCode = http.StatusInternalServerError
	}

	return httpErr
}
