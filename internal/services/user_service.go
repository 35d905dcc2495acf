package services

import (
	"errors"
	"strings"

	"innerai_backend/internal/models"
	"innerai_backend/internal/repositories"
	"innerai_backend/internal/services/dto"
	"innerai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	List(db *gorm.DB) ([]dto.UserResponse, error)
	UpdateProfile(db *gorm.DB, user *models.User, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) List(db *gorm.DB) ([]dto.UserResponse, error) {
	users, err := s.userRepo.List(db)
	if err != nil {
		return nil, storeError(db, "list users", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return out, nil
}

func (s *UserServiceImpl) UpdateProfile(db *gorm.DB, user *models.User, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	icon := strings.TrimSpace(req.Icon)
	iconBg := strings.TrimSpace(req.IconBg)

	if err := s.userRepo.UpdateProfile(db, user.Mail, username, icon, iconBg); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, storeError(db, "update profile", err)
	}

	updated, err := s.userRepo.FindByMail(db, user.Mail)
	if err != nil {
		return nil, storeError(db, "update profile", err)
	}
	resp := dto.NewUserResponse(updated)
	return &resp, nil
}
