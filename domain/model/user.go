package model

import "github.com/golang-jwt/jwt"

// UserClaims carries the authenticated product-user identity. Only the user
// id (Issuer) is consumed by this subsystem.
type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}
