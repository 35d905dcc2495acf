package repositories

import (
	"errors"
	"time"

	"innerai_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrVerificationCodeNotFound = errors.New("verification code not found")
)

type VerificationCodeRepository interface {
	// Replace удаляет прежний код для адреса и сохраняет новый
	Replace(db *gorm.DB, code *models.VerificationCode) error

	// FindValid ищет неистекший код с заданным хэшем
	FindValid(db *gorm.DB, mail, codeHash string, now time.Time) (*models.VerificationCode, error)

	DeleteByMail(db *gorm.DB, mail string) error
	DeleteExpired(db *gorm.DB, now time.Time) (int64, error)
}

type verificationCodeRepository struct{}

func NewVerificationCodeRepository() VerificationCodeRepository {
	return &verificationCodeRepository{}
}

func (r *verificationCodeRepository) Replace(db *gorm.DB, code *models.VerificationCode) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mail = ?", code.Mail).Delete(&models.VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (r *verificationCodeRepository) FindValid(db *gorm.DB, mail, codeHash string, now time.Time) (*models.VerificationCode, error) {
	var code models.VerificationCode
	err := db.Where("mail = ? AND code_hash = ? AND expires_at > ?", mail, codeHash, now).First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

func (r *verificationCodeRepository) DeleteByMail(db *gorm.DB, mail string) error {
	return db.Where("mail = ?", mail).Delete(&models.VerificationCode{}).Error
}

func (r *verificationCodeRepository) DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.VerificationCode{})
	return result.RowsAffected, result.Error
}
