package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the claim set carried by access tokens.
// Subject (sub) holds the user ID.
type TokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
