package domain

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the claims carried by an API access token.
// Email is the requesting user's email and drives record visibility.
type JWTClaims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
