package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/userhub/userhub/internal/shared"
)

// SQLRepository implements Repository on database/sql with the SQLite driver.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository constructs a SQLite backed repository.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts a new user.
func (r *SQLRepository) Create(ctx context.Context, user User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.HashedPassword, user.Created.UTC(), user.Updated.UTC())
	if err != nil {
		return mapSQLiteError("create", err)
	}
	return nil
}

// List returns all users ordered by creation.
func (r *SQLRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created, id`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.Created, &user.Updated); err != nil {
			return nil, fmt.Errorf("users: list scan: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: list rows: %w", err)
	}
	return users, nil
}

// FindByID fetches a user by id.
func (r *SQLRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "find by id", `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// FindByEmail fetches a user by email.
func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "find by email", `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// Update persists the mutable fields of user.
func (r *SQLRepository) Update(ctx context.Context, user User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, hashed_password = ?, updated = ? WHERE id = ?`,
		user.Name, user.Email, user.HashedPassword, user.Updated.UTC(), user.ID)
	if err != nil {
		return mapSQLiteError("update", err)
	}
	return expectRow(res, "update")
}

// Delete removes a user.
func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	return expectRow(res, "delete")
}

func (r *SQLRepository) findOne(ctx context.Context, op, query string, arg any) (*User, error) {
	var user User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.Created, &user.Updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("users: %s: %w", op, err)
	}
	return &user, nil
}

func expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("users: %s rows affected: %w", op, err)
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapSQLiteError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return shared.ErrDuplicateEmail
	}
	return fmt.Errorf("users: %s: %w", op, err)
}

var _ Repository = (*SQLRepository)(nil)
