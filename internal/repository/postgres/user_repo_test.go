package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"showup/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userTestColumns = []string{"id", "email", "name", "password_hash", "salt", "created_at", "updated_at"}

func TestUserRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success assigns id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewUserRepository(db)
		u := &domain.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "hash", Salt: "salt", CreatedAt: now, UpdatedAt: now}
		require.NoError(t, repo.Create(ctx, u))
		assert.NotEmpty(t, u.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewUserRepository(db)
		u := &domain.User{Email: "alice@example.com", PasswordHash: "hash", Salt: "salt", CreatedAt: now, UpdatedAt: now}
		err = repo.Create(ctx, u)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(userTestColumns).
			AddRow("u-1", "alice@example.com", "Alice", "hash", "salt", now, now)
		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("alice@example.com").
			WillReturnRows(rows)

		repo := NewUserRepository(db)
		u, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
		assert.Equal(t, "Alice", u.Name)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepositoryGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepository(db)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
