package models

import "time"

type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)

type User struct {
	BaseModel
	Mail         string   `gorm:"column:mail;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string   `gorm:"column:password_hash;type:varchar(255);not null"`
	PasswordSalt string   `gorm:"column:password_salt;type:varchar(255);not null"`
	Icon         string   `gorm:"column:icon;type:varchar(255)"`
	IconBg       string   `gorm:"column:icon_bg;type:varchar(255)"`
	Username     string   `gorm:"column:username;type:varchar(255)"`
	Role         UserRole `gorm:"column:role;type:varchar(50);default:'member'"`
}

func (User) TableName() string {
	return "users"
}

// AuthToken - хранится только хэш токена, сырое значение видит лишь клиент
type AuthToken struct {
	BaseModel
	Mail      string    `gorm:"column:mail;type:varchar(255);index;not null"`
	TokenHash string    `gorm:"column:token_hash;type:varchar(128);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}

// VerificationCode - одноразовый код регистрации с коротким TTL
type VerificationCode struct {
	BaseModel
	Mail      string    `gorm:"column:mail;type:varchar(255);uniqueIndex;not null"`
	CodeHash  string    `gorm:"column:code_hash;type:varchar(128);not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}
