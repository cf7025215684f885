package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload for access and refresh tokens.
// TokenVersion must match the user's current version; logout bumps the
// version and invalidates every outstanding token.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion int    `json:"token_version"`
}
