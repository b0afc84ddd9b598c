package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the payload of identity tokens. Principal is the opaque caller identity.
type JWTClaims struct {
	Principal string `json:"principal"`
	jwt.RegisteredClaims
}
