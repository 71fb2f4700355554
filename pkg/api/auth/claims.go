// Package auth provides JWT authentication for the warranty API.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenType indicates whether a token is an access token or refresh token.
type TokenType string

const (
	// TokenTypeAccess is a short-lived token used for API authorization.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh is a long-lived token used to obtain new access tokens.
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents JWT claims for warranty API authentication.
//
// The registered Subject claim carries the account ID. Warranty
// ownership is derived from it through the identity mapping layer, so
// nothing in the token ties it to a specific warranty row.
type Claims struct {
	jwt.RegisteredClaims

	// Name is the account display name.
	Name string `json:"name"`

	// Email is the account email.
	Email string `json:"email"`

	// TokenType indicates whether this is an access or refresh token.
	TokenType TokenType `json:"token_type"`
}

// IsAccessToken returns true if this is an access token.
func (c *Claims) IsAccessToken() bool {
	return c.TokenType == TokenTypeAccess
}

// IsRefreshToken returns true if this is a refresh token.
func (c *Claims) IsRefreshToken() bool {
	return c.TokenType == TokenTypeRefresh
}
