package domain

import (
	"fmt"
)

const (
	ErrCodeValidation      string = "VALIDATION_ERROR"
	ErrCodeNotFound        string = "NOT_FOUND"
	ErrCodeUnauthorized    string = "UNAUTHORIZED"
	ErrCodeUnauthenticated string = "UNAUTHENTICATED"
	ErrCodeInvalidToken    string = "INVALID_TOKEN"
	ErrCodeTokenExpired    string = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked    string = "TOKEN_REVOKED"
	ErrCodeForbidden       string = "FORBIDDEN"
	ErrCodeConflict        string = "CONFLICT"
	ErrCodeInternal        string = "INTERNAL_ERROR"
	ErrCodeExternal        string = "EXTERNAL_SERVICE_ERROR"
	ErrCodeRateLimited     string = "RATE_LIMITED"
)

type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"cause"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Message:%s, Cause:%v", e.Message, e.Cause)
	}
	return fmt.Sprintf("Message:%s", e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func NewDomainError(code, msg string, cause error) *DomainError {
	return &DomainError{Code: code, Message: msg, Cause: cause}
}

var (
	// ErrNoToken means the request carried no credential at all.
	ErrNoToken = &DomainError{Code: ErrCodeUnauthenticated, Message: "authentication required"}
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = &DomainError{Code: ErrCodeInvalidToken, Message: "invalid token"}
	// ErrTokenExpired means the token was well-formed but its validity window passed.
	ErrTokenExpired = &DomainError{Code: ErrCodeTokenExpired, Message: "token expired"}
	// ErrTokenRevoked means the refresh token no longer matches the persisted
	// value: it was rotated away, or cleared by logout.
	ErrTokenRevoked = &DomainError{Code: ErrCodeTokenRevoked, Message: "refresh token revoked"}

	ErrUserNotFound       = &DomainError{Code: ErrCodeNotFound, Message: "user not found"}
	ErrChannelNotFound    = &DomainError{Code: ErrCodeNotFound, Message: "channel not found"}
	ErrInvalidCredentials = &DomainError{Code: ErrCodeUnauthorized, Message: "invalid credentials"}
	ErrUserExists         = &DomainError{Code: ErrCodeConflict, Message: "username or email already exists"}
	ErrDbConnection       = &DomainError{Code: ErrCodeExternal, Message: "failed to connect to database"}
)
