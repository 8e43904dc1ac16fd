package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting an admin JWT.
type AccessTokenPayload struct {
	Username string
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to the admin client. The
// token only proves "this is the configured admin"; authorization is the
// live-session check against the jti in Redis.
type AccessTokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
