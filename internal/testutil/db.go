// Package testutil - общие помощники для тестов, работающих с БД
package testutil

import (
	"testing"

	"innerai_backend/internal/auth"
	"innerai_backend/internal/database"
	"innerai_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB открывает чистую in-memory sqlite базу, прогоняет миграции и сиды.
// Одно соединение: каждая ":memory:" база живет в пределах своего соединения.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig("test"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))
	return db
}

// TestKDFIterations - быстрый KDF для тестов
const TestKDFIterations = 1000

// CreateUser создает пользователя с заданным паролем
func CreateUser(t *testing.T, db *gorm.DB, mail, password string) *models.User {
	t.Helper()

	salt, err := auth.NewSalt()
	require.NoError(t, err)

	user := &models.User{
		Mail:         mail,
		PasswordHash: auth.HashPassword(password, salt, TestKDFIterations),
		PasswordSalt: salt,
		Username:     mail,
		Role:         models.UserRoleMember,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
