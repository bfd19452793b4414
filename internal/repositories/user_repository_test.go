package repository_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	repository "github.com/furniro/storefront/internal/repositories"
	"github.com/furniro/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserRepoTest(t *testing.T) (repository.UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewUserRepo(db), mock
}

func userRows(user *models.User) *sqlmock.Rows {
	var street, city, state, postalCode any
	if user.Address != nil {
		street, city = user.Address.Street, user.Address.City
		state, postalCode = user.Address.State, user.Address.PostalCode
	}

	var lastLogin any
	if user.LastLogin != nil {
		lastLogin = *user.LastLogin
	}

	return sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "password", "role", "street", "city",
		"state", "postal_code", "is_active", "last_login", "created_at", "updated_at",
	}).AddRow(user.ID, user.Name, user.Email, user.Phone, user.Password, user.Role,
		street, city, state, postalCode, user.IsActive, lastLogin, user.CreatedAt, user.UpdatedAt)
}

func TestCreateUser(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Customer Role Defaulted", func(t *testing.T) {
		// Arrange
		repo, mock := setupUserRepoTest(t)

		user := &models.User{
			Name:     "Jordan Smith",
			Email:    "jordan.smith@example.com",
			Phone:    "+15550100",
			Password: "hashed-password",
		}

		newID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WithArgs(user.Name, user.Email, user.Phone, user.Password, models.RoleCustomer).
			WillReturnRows(sqlmock.NewRows([]string{"id", "role", "is_active", "created_at", "updated_at"}).
				AddRow(newID, models.RoleCustomer, true, now, now))

		// Act
		err := repo.CreateUser(ctx, user)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, newID, user.ID)
		assert.Equal(t, models.RoleCustomer, user.Role)
		assert.True(t, user.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		// Arrange
		repo, mock := setupUserRepoTest(t)

		user := &models.User{
			Name:     "Jordan Smith",
			Email:    "jordan.smith@example.com",
			Phone:    "+15550100",
			Password: "hashed-password",
		}

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WithArgs(user.Name, user.Email, user.Phone, user.Password, models.RoleCustomer).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		// Act
		err := repo.CreateUser(ctx, user)

		// Assert
		require.Error(t, err)
		assert.True(t, repository.IsUniqueViolation(err))
		assert.Equal(t, "users_email_key", repository.UniqueConstraint(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetUserByEmail(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Without Address", func(t *testing.T) {
		// Arrange
		repo, mock := setupUserRepoTest(t)

		want := &models.User{
			ID:       uuid.New(),
			Name:     "Jordan Smith",
			Email:    "jordan.smith@example.com",
			Phone:    "+15550100",
			Password: "hashed-password",
			Role:     models.RoleCustomer,
			IsActive: true,
		}

		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
			WithArgs(want.Email).
			WillReturnRows(userRows(want))

		// Act
		got, err := repo.GetUserByEmail(ctx, want.Email)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Nil(t, got.Address, "null address columns should not materialize an Address")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Unknown Email", func(t *testing.T) {
		// Arrange
		repo, mock := setupUserRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		// Act
		got, err := repo.GetUserByEmail(ctx, "nobody@example.com")

		// Assert
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - With Address And Last Login", func(t *testing.T) {
		// Arrange
		repo, mock := setupUserRepoTest(t)

		lastLogin := time.Now().Add(-time.Hour)
		want := &models.User{
			ID:       uuid.New(),
			Name:     "Jordan Smith",
			Email:    "jordan.smith@example.com",
			Phone:    "+15550100",
			Password: "hashed-password",
			Role:     models.RoleCustomer,
			IsActive: true,
			Address: &models.Address{
				Street: "12 Oak Lane", City: "Portland", State: "OR", PostalCode: "97201",
			},
			LastLogin: &lastLogin,
		}

		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
			WithArgs(want.ID).
			WillReturnRows(userRows(want))

		// Act
		got, err := repo.GetUserByID(ctx, want.ID)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, got.Address)
		assert.Equal(t, "Portland", got.Address.City)
		require.NotNil(t, got.LastLogin)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdatePassword(t *testing.T) {
	ctx := t.Context()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupUserRepoTest(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`)).
			WithArgs("new-hash", userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.UpdatePassword(ctx, userID, "new-hash")

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Unknown User", func(t *testing.T) {
		// Arrange
		repo, mock := setupUserRepoTest(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`)).
			WithArgs("new-hash", userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.UpdatePassword(ctx, userID, "new-hash")

		// Assert
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateLastLogin(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupUserRepoTest(t)
		userID := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET last_login = NOW() WHERE id = $1`)).
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.UpdateLastLogin(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
