package dto

import (
	"time"

	"innerai_backend/internal/models"
)

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

// RequestCodeRequest - запрос кода подтверждения для регистрации
type RequestCodeRequest struct {
	Mail string `json:"mail" validate:"required,email,max=255"`
}

// RegisterRequest - регистрация по коду из письма
type RegisterRequest struct {
	Mail     string `json:"mail" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Username string `json:"username" validate:"omitempty,max=255"`
	Code     string `json:"code" validate:"required,len=6,numeric"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"max=255"`
	Icon     string `json:"icon" validate:"max=255"`
	IconBg   string `json:"icon_bg" validate:"max=255"`
}

// UserResponse - публичное представление пользователя, без хэшей
type UserResponse struct {
	ID       uint   `json:"id"`
	Mail     string `json:"mail"`
	Username string `json:"username"`
	Icon     string `json:"icon"`
	IconBg   string `json:"icon_bg"`
	Role     string `json:"role"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Mail:     u.Mail,
		Username: u.Username,
		Icon:     u.Icon,
		IconBg:   u.IconBg,
		Role:     string(u.Role),
	}
}

// LoginResponse - сырой токен отдается клиенту один раз
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type VerifyResponse struct {
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// AuthIdentity - результат проверки bearer-токена
type AuthIdentity struct {
	User      *models.User
	TokenHash string
	ExpiresAt time.Time
}
