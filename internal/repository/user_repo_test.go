package repository

import (
	"context"
	"testing"
	"time"

	"document_manager/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepoMock(t *testing.T) (UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserRepository(mock), mock
}

func userRow(u *model.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "uuid", "email", "name", "password_hash", "permissions", "created_at"}).
		AddRow(u.ID, u.UUID, u.Email, u.Name, u.PasswordHash, u.Permissions, u.CreatedAt)
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	user := &model.User{
		UUID:         uuid.New(),
		Email:        "a@x.com",
		Name:         "Alice",
		PasswordHash: "hash",
		Permissions:  model.PermissionBasic,
		CreatedAt:    time.Now(),
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.UUID, user.Email, user.Name, user.PasswordHash, user.Permissions, user.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(42))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 42, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &model.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	want := &model.User{
		ID:           1,
		UUID:         uuid.New(),
		Email:        "a@x.com",
		Name:         "Alice",
		PasswordHash: "hash",
		Permissions:  model.PermissionEditor,
		CreatedAt:    time.Now(),
	}
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("a@x.com").
		WillReturnRows(userRow(want))

	got, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.Permissions, got.Permissions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("nobody@x.com").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePermissions_NotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(`UPDATE users SET permissions`).
		WithArgs(model.PermissionEditor, "ghost@x.com").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.UpdatePermissions(context.Background(), "ghost@x.com", model.PermissionEditor)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(5).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	deleted, err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(6).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err = repo.Delete(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
