package domain

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type IdentityToken struct {
	UserID string
}

type JwtTokenRepository interface {
	CreateTokenPair(userID string) (*TokenPair, error)
	VerifyAccessToken(tokenString string) (*IdentityToken, error)
	VerifyRefreshToken(tokenString string) (*IdentityToken, error)
}
