package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	ServerHost            string  `mapstructure:"SERVER_HOST" validate:"required"`
	ServerPort            int     `mapstructure:"SERVER_PORT" validate:"required,gte=1023,lte=65535"`
	DatabaseDSN           string  `mapstructure:"DB_DSN" validate:"required"`
	RedisAddr             string  `mapstructure:"REDIS_ADDR" validate:"required"`
	RedisDB               int     `mapstructure:"REDIS_DB" validate:"gte=0,lte=16"`
	JwtAccessSecret       string  `mapstructure:"JWT_ACCESS_SECRET" validate:"required,min=32"`
	JwtRefreshSecret      string  `mapstructure:"JWT_REFRESH_SECRET" validate:"required,min=32,nefield=JwtAccessSecret"`
	JwtISS                string  `mapstructure:"ISS" validate:"required"`
	AccessTokenTTLMin     int     `mapstructure:"ACCESS_TOKEN_TTL_MINUTES" validate:"required,gte=1"`
	RefreshTokenTTLHour   int     `mapstructure:"REFRESH_TOKEN_TTL_HOURS" validate:"required,gte=1"`
	BcryptCost            int     `mapstructure:"BCRYPT_COST" validate:"required,gte=0"`
	RataLimitCapacity     float64 `mapstructure:"RATE_LIMITER_CAPACITY" validate:"required,gte=0"`
	RataLimitFillRate     float64 `mapstructure:"RATE_LIMITER_FILL_RATE" validate:"required,gte=0"`
	RateLimitTTL          int     `mapstructure:"RATE_LIMITER_TTL_SECONDS" validate:"required,gte=0"`
	MaxAllowedSize        int     `mapstructure:"JSON_BODY_MAX_SIZE" validate:"required,gte=0"`
	MaxUploadSize         int64   `mapstructure:"UPLOAD_MAX_SIZE" validate:"required,gte=0"`
	S3Region              string  `mapstructure:"S3_REGION" validate:"required"`
	S3Bucket              string  `mapstructure:"S3_BUCKET" validate:"required"`
	S3Endpoint            string  `mapstructure:"S3_ENDPOINT"`
	S3AccessKey           string  `mapstructure:"S3_ACCESS_KEY" validate:"required"`
	S3SecretKey           string  `mapstructure:"S3_SECRET_KEY" validate:"required"`
	S3PublicBaseURL       string  `mapstructure:"S3_PUBLIC_BASE_URL" validate:"required"`
	LogFile               string  `mapstructure:"LOGGING_FILE"`
	ServerShutdownTimeout int     `mapstructure:"SERVER_SHUTDOWN_TIMEOUT" validate:"required,gte=0"`
}

func LoadConfigs(path string) (*Config, error) {

	viper.SetConfigFile(path)
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var Cfg Config

	err = viper.Unmarshal(&Cfg)
	if err != nil {
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(Cfg)
	if err != nil {
		return nil, err
	}

	return &Cfg, nil

}
