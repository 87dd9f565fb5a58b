package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/kuponim/kuponim/core"
)

// appJWTConfig is the JWT auth middleware config; configureAuth fills it in.
var appJWTConfig = middleware.JWTConfig{
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "ownerToken",
	Claims:        new(Claims),
}

// Claims represents the authorization claims transmitted via a JWT.
// The wallet has a single owner; there is no per-user identity.
type Claims struct {
	jwt.StandardClaims
}

// configureAuth wires the middleware to the app secret and returns it.
func configureAuth(conf *core.Config) echo.MiddlewareFunc {
	appJWTConfig.SigningKey = []byte(conf.SecretKey)
	return middleware.JWTWithConfig(appJWTConfig)
}

// GetOwnerClaims builds the claims for a freshly authenticated session.
func GetOwnerClaims(conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   "owner",
			Audience:  "Wallet",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
	}
}

// authenticate checks the shared wallet password against the configured
// bcrypt hash. The plaintext password is never stored or compared directly.
func authenticate(password string, conf *core.Config) (*Claims, error) {
	if conf.Auth.PasswordHash == "" {
		return nil, errAuthNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(conf.Auth.PasswordHash), []byte(password)); err != nil {
		return nil, errAuthenticationFailed
	}
	return GetOwnerClaims(conf), nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)
	return token.SignedString([]byte(conf.SecretKey))
}
