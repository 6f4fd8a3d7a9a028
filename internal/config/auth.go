package config

import "time"

type Auth struct {
	// JWTSecret signs access tokens (HS256).
	JWTSecret string `env:"AUTH_JWT_SECRET,required"`

	// AccessTokenTTL bounds how long an issued token stays valid.
	AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"30m"`

	// BcryptCost tunes password-hashing work factor. 0 uses the library default.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"0"`
}
