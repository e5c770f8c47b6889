package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Account is the view of a user needed to sign in.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

// AccountFinder looks accounts up by e-mail address.
type AccountFinder interface {
	Credentials(ctx context.Context, email string) (*Account, error)
}

// Claims are the JWT claims issued on sign-in.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// SigninUser is the user summary returned alongside the token.
type SigninUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SigninResult is the body of a successful sign-in.
type SigninResult struct {
	Token string     `json:"token"`
	User  SigninUser `json:"user"`
}
