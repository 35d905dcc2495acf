package repositories

import (
	"errors"

	"innerai_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	FindByMail(db *gorm.DB, mail string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	UpdateProfile(db *gorm.DB, mail string, username, icon, iconBg string) error
	UpdatePassword(db *gorm.DB, mail, hash, salt string) error
	List(db *gorm.DB) ([]models.User, error)

	// CountByMails - сколько из переданных адресов есть в users
	CountByMails(db *gorm.DB, mails []string) (int64, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) FindByMail(db *gorm.DB, mail string) (*models.User, error) {
	var user models.User
	if err := db.Where("mail = ?", mail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *userRepository) UpdateProfile(db *gorm.DB, mail string, username, icon, iconBg string) error {
	result := db.Model(&models.User{}).Where("mail = ?", mail).Updates(map[string]interface{}{
		"username": username,
		"icon":     icon,
		"icon_bg":  iconBg,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(db *gorm.DB, mail, hash, salt string) error {
	result := db.Model(&models.User{}).Where("mail = ?", mail).Updates(map[string]interface{}{
		"password_hash": hash,
		"password_salt": salt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Order("id ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) CountByMails(db *gorm.DB, mails []string) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Where("mail IN ?", mails).Count(&count).Error
	return count, err
}
