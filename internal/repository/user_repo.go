package repository

import (
	"context"
	"errors"
	"fmt"

	"document_manager/internal/model"

	"github.com/jackc/pgx/v5"
)

// ErrDuplicateEmail is returned when the users.email uniqueness constraint
// rejects an insert. The constraint, not a pre-check, is what makes
// registration race-safe.
var ErrDuplicateEmail = errors.New("user with this email already exists")

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	UpdateName(ctx context.Context, email, name string) (*model.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) (*model.User, error)
	UpdatePermissions(ctx context.Context, email string, permissions int) (*model.User, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, uuid, email, name, password_hash, permissions, created_at`

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (uuid, email, name, password_hash, permissions, created_at)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.UUID, user.Email, user.Name, user.PasswordHash, user.Permissions, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email. Not found is (nil, nil); the service
// layer decides what absence means.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(
		&user.ID, &user.UUID, &user.Email, &user.Name, &user.PasswordHash, &user.Permissions, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&user.ID, &user.UUID, &user.Email, &user.Name, &user.PasswordHash, &user.Permissions, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// UpdateName changes the display name of the user with the given email
func (r *userRepository) UpdateName(ctx context.Context, email, name string) (*model.User, error) {
	user := &model.User{}
	sql := `UPDATE users SET name = $1 WHERE email = $2 RETURNING ` + userColumns
	err := r.db.QueryRow(ctx, sql, name, email).Scan(
		&user.ID, &user.UUID, &user.Email, &user.Name, &user.PasswordHash, &user.Permissions, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user name: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash of the user with the given email
func (r *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) (*model.User, error) {
	user := &model.User{}
	sql := `UPDATE users SET password_hash = $1 WHERE email = $2 RETURNING ` + userColumns
	err := r.db.QueryRow(ctx, sql, passwordHash, email).Scan(
		&user.ID, &user.UUID, &user.Email, &user.Name, &user.PasswordHash, &user.Permissions, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user password: %w", err)
	}
	return user, nil
}

// UpdatePermissions sets the permission level of the user with the given email
func (r *userRepository) UpdatePermissions(ctx context.Context, email string, permissions int) (*model.User, error) {
	user := &model.User{}
	sql := `UPDATE users SET permissions = $1 WHERE email = $2 RETURNING ` + userColumns
	err := r.db.QueryRow(ctx, sql, permissions, email).Scan(
		&user.ID, &user.UUID, &user.Email, &user.Name, &user.PasswordHash, &user.Permissions, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user permissions: %w", err)
	}
	return user, nil
}

// Delete removes a user row. Returns false if no row matched.
func (r *userRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
