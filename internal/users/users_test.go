package users

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/userhub/internal/platform/db"
)

type notification struct {
	ID, Name, Email string
}

type stubNotifier struct {
	mu    sync.Mutex
	calls []notification
	err   error
}

func (s *stubNotifier) UserCreated(ctx context.Context, id, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, notification{ID: id, Name: name, Email: email})
	return s.err
}

var errQueueDown = errors.New("queue down")

func newSQLiteRepo(t *testing.T) *SQLRepository {
	t.Helper()
	conn, err := db.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewSQLRepository(conn)
}

func newTestService(t *testing.T, notifier Notifier) *Service {
	t.Helper()
	svc := NewService(newSQLiteRepo(t), notifier)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func mustCreate(t *testing.T, svc *Service, name, email, password string) *User {
	t.Helper()
	user, err := svc.Create(context.Background(), CreateInput{Name: name, Email: email, Password: password})
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return user
}

func strPtr(s string) *string { return &s }
