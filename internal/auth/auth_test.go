package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/userhub/internal/shared"
)

const testSecret = "test-secret"

type stubAccounts struct {
	accounts map[string]*Account
	err      error
}

func (s *stubAccounts) Credentials(ctx context.Context, email string) (*Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	account, ok := s.accounts[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return account, nil
}

func newJoe(t *testing.T) *Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &Account{ID: "5a3cb177-9bcc-4218-a4d7-e428e428e428", Name: "Joe", Email: "abc@def.com", PasswordHash: string(hash)}
}

type fixture struct {
	service *Service
	issuer  *Issuer
	mr      *miniredis.Miniredis
	joe     *Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	joe := newJoe(t)
	issuer := NewIssuer(testSecret, time.Hour)
	service := NewService(&stubAccounts{accounts: map[string]*Account{joe.Email: joe}}, issuer, NewRevocationStore(client, 24*time.Hour))
	return &fixture{service: service, issuer: issuer, mr: mr, joe: joe}
}
