package users

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/userhub/internal/auth"
	"github.com/userhub/userhub/internal/shared"
)

// Notifier is told about new sign-ups.
type Notifier interface {
	UserCreated(ctx context.Context, id, name, email string) error
}

// Service handles user business logic.
type Service struct {
	repo     Repository
	notifier Notifier
	validate *validator.Validate
	hashCost int
	now      func() time.Time
}

// NewService builds Service instance. notifier may be nil.
func NewService(repo Repository, notifier Notifier) *Service {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{
		repo:     repo,
		notifier: notifier,
		validate: validate,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

type createFields struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type updateFields struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// Create validates and stores a new user.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	fields := createFields{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Password: in.Password,
	}
	if err := s.validate.Struct(fields); err != nil {
		return nil, badRequest(err)
	}
	hash, err := s.hash(fields.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := User{
		ID:             uuid.NewString(),
		Name:           fields.Name,
		Email:          fields.Email,
		HashedPassword: hash,
		Created:        now,
		Updated:        now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			return nil, badRequest(err)
		}
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.UserCreated(ctx, user.ID, user.Name, user.Email); err != nil {
			return &user, errors.Join(ErrNotifyFailed, err)
		}
	}
	return &user, nil
}

// ErrNotifyFailed is returned alongside a created user when the welcome
// notification could not be queued.
var ErrNotifyFailed = errors.New("signup notification not queued")

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get loads a user by id. Unknown and malformed ids yield shared.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, shared.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// Update merges in into user and persists the result.
func (s *Service) Update(ctx context.Context, user *User, in UpdateInput) (*User, error) {
	fields := updateFields{Name: user.Name, Email: user.Email}
	if in.Name != nil {
		fields.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		fields.Email = normalizeEmail(*in.Email)
	}
	if in.Password != nil {
		fields.Password = *in.Password
	}
	if err := s.validate.Struct(fields); err != nil {
		return nil, badRequest(err)
	}
	next := *user
	next.Name = fields.Name
	next.Email = fields.Email
	if fields.Password != "" {
		hash, err := s.hash(fields.Password)
		if err != nil {
			return nil, err
		}
		next.HashedPassword = hash
	}
	next.Updated = s.now()
	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			return nil, badRequest(err)
		}
		return nil, err
	}
	return &next, nil
}

// Remove deletes user and returns it.
func (s *Service) Remove(ctx context.Context, user *User) (*User, error) {
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Credentials implements auth.AccountFinder.
func (s *Service) Credentials(ctx context.Context, email string) (*auth.Account, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return &auth.Account{ID: user.ID, Name: user.Name, Email: user.Email, PasswordHash: user.HashedPassword}, nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("users: hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ auth.AccountFinder = (*Service)(nil)
