package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/streamhub/account-server/internal/domain"
)

const (
	subjectAccess  = "access-token"
	subjectRefresh = "refresh-token"
)

// JwtAuth mints and verifies the access/refresh token pair. The two kinds
// are signed with distinct secrets and distinct expiry horizons, so a
// refresh token can never pass access verification and vice versa.
type JwtAuth struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

type CustomClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (j JwtAuth) CreateTokenPair(userID string) (*domain.TokenPair, error) {
	accessToken, err := j.createToken(userID, subjectAccess, j.AccessSecret, j.AccessTTL)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeInternal, "failed to create access token", err)
	}

	refreshToken, err := j.createToken(userID, subjectRefresh, j.RefreshSecret, j.RefreshTTL)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeInternal, "failed to create refresh token", err)
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (j JwtAuth) VerifyAccessToken(tokenString string) (*domain.IdentityToken, error) {
	return j.verifyToken(tokenString, subjectAccess, j.AccessSecret)
}

func (j JwtAuth) VerifyRefreshToken(tokenString string) (*domain.IdentityToken, error) {
	return j.verifyToken(tokenString, subjectRefresh, j.RefreshSecret)
}

func (j JwtAuth) createToken(userID, subject string, secret []byte, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

func (j JwtAuth) verifyToken(tokenString, subject string, secret []byte) (*domain.IdentityToken, error) {
	if tokenString == "" {
		return nil, domain.ErrNoToken
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	if !token.Valid || claims.Subject != subject || claims.UserID == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.IdentityToken{UserID: claims.UserID}, nil
}
