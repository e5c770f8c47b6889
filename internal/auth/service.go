package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/userhub/internal/shared"
)

// Service wraps sign-in and token verification rules.
type Service struct {
	accounts    AccountFinder
	issuer      *Issuer
	revocations *RevocationStore
}

// NewService constructs a new Service.
func NewService(accounts AccountFinder, issuer *Issuer, revocations *RevocationStore) *Service {
	return &Service{accounts: accounts, issuer: issuer, revocations: revocations}
}

// Signin validates email/password credentials and issues a token.
func (s *Service) Signin(ctx context.Context, email, password string) (*SigninResult, *Claims, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.accounts.Credentials(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.Unauthenticated("User not found", err)
		}
		return nil, nil, shared.Unauthenticated("Could not sign in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, shared.Unauthenticated("Email and password don't match.", shared.ErrInvalidCredentials)
	}
	token, claims, err := s.issuer.Issue(account.ID)
	if err != nil {
		return nil, nil, shared.Unauthenticated("Could not sign in", err)
	}
	return &SigninResult{
		Token: token,
		User:  SigninUser{ID: account.ID, Name: account.Name, Email: account.Email},
	}, claims, nil
}

// Verify parses the token and rejects revoked ones.
func (s *Service) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.issuer.Parse(raw)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, shared.NewUnauthorizedError("revoked_token", "jwt revoked", shared.ErrTokenRevoked)
	}
	return claims, nil
}

// Signout revokes the presented token when it is still valid.
func (s *Service) Signout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	claims, err := s.issuer.Parse(raw)
	if err != nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("auth: signout: %w", err)
	}
	return nil
}
