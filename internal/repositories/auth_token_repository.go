package repositories

import (
	"errors"
	"time"

	"innerai_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTokenNotFound = errors.New("auth token not found")
)

// AuthTokenRepository - хранилище хэшей bearer-токенов
type AuthTokenRepository interface {
	Create(db *gorm.DB, token *models.AuthToken) error

	// FindUserByHash возвращает владельца действующего (expires_at > now) токена и срок токена
	FindUserByHash(db *gorm.DB, tokenHash string, now time.Time) (*models.User, time.Time, error)

	DeleteByHash(db *gorm.DB, tokenHash string) error
	DeleteByMail(db *gorm.DB, mail string) error

	// DeleteByMailExcept удаляет все токены пользователя, кроме текущего
	DeleteByMailExcept(db *gorm.DB, mail, keepHash string) error

	// DeleteExpired удаляет строки с expires_at < now, возвращает количество
	DeleteExpired(db *gorm.DB, now time.Time) (int64, error)
}

type authTokenRepository struct{}

func NewAuthTokenRepository() AuthTokenRepository {
	return &authTokenRepository{}
}

func (r *authTokenRepository) Create(db *gorm.DB, token *models.AuthToken) error {
	return db.Create(token).Error
}

// tokenOwner - строка auth_tokens JOIN users
type tokenOwner struct {
	models.User    `gorm:"embedded"`
	TokenExpiresAt time.Time
}

func (r *authTokenRepository) FindUserByHash(db *gorm.DB, tokenHash string, now time.Time) (*models.User, time.Time, error) {
	var owners []tokenOwner
	err := db.Table("auth_tokens AS t").
		Select("u.*, t.expires_at AS token_expires_at").
		Joins("JOIN users u ON u.mail = t.mail").
		Where("t.token_hash = ? AND t.expires_at > ?", tokenHash, now).
		Limit(1).
		Scan(&owners).Error
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(owners) == 0 {
		return nil, time.Time{}, ErrTokenNotFound
	}
	return &owners[0].User, owners[0].TokenExpiresAt, nil
}

func (r *authTokenRepository) DeleteByHash(db *gorm.DB, tokenHash string) error {
	result := db.Where("token_hash = ?", tokenHash).Delete(&models.AuthToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *authTokenRepository) DeleteByMail(db *gorm.DB, mail string) error {
	return db.Where("mail = ?", mail).Delete(&models.AuthToken{}).Error
}

func (r *authTokenRepository) DeleteByMailExcept(db *gorm.DB, mail, keepHash string) error {
	return db.Where("mail = ? AND token_hash <> ?", mail, keepHash).Delete(&models.AuthToken{}).Error
}

func (r *authTokenRepository) DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.AuthToken{})
	return result.RowsAffected, result.Error
}
