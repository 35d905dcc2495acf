package services

import (
	"errors"
	"strings"

	"innerai_backend/internal/database"
	"innerai_backend/internal/logger"
	"innerai_backend/internal/repositories"
	"innerai_backend/internal/services/dto"
	"innerai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// OptionService - справочники клиентов, поставщиков, продуктов, тегов и статусов follow-up
type OptionService interface {
	List(db *gorm.DB, kind string) ([]string, error)
	Create(db *gorm.DB, kind string, req *dto.OptionRequest) (*dto.OptionResponse, error)
	ListStatuses(db *gorm.DB) ([]dto.FollowUpStatusResponse, error)
}

type OptionServiceImpl struct {
	optionRepo repositories.OptionRepository
}

func NewOptionService(optionRepo repositories.OptionRepository) OptionService {
	return &OptionServiceImpl{optionRepo: optionRepo}
}

func (s *OptionServiceImpl) List(db *gorm.DB, kind string) ([]string, error) {
	names, err := s.optionRepo.ListNames(db, repositories.OptionKind(kind))
	if err != nil {
		if errors.Is(err, repositories.ErrUnknownOptionKind) {
			return nil, apperrors.ErrUnknownOptionType
		}
		return nil, storeError(db, "list options", err)
	}
	return names, nil
}

func (s *OptionServiceImpl) Create(db *gorm.DB, kind string, req *dto.OptionRequest) (*dto.OptionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError(map[string]string{"name": "This field is required"})
	}

	if err := s.optionRepo.Create(db, repositories.OptionKind(kind), name); err != nil {
		if errors.Is(err, repositories.ErrUnknownOptionKind) {
			return nil, apperrors.ErrUnknownOptionType
		}
		if database.IsUniqueViolation(err) {
			return nil, apperrors.ErrOptionAlreadyExists
		}
		return nil, storeError(db, "create option", err)
	}

	logger.CtxInfo(db.Statement.Context, "Option created", "type", kind, "name", name)
	return &dto.OptionResponse{Name: name}, nil
}

func (s *OptionServiceImpl) ListStatuses(db *gorm.DB) ([]dto.FollowUpStatusResponse, error) {
	statuses, err := s.optionRepo.ListStatuses(db)
	if err != nil {
		return nil, storeError(db, "list follow-up statuses", err)
	}
	out := make([]dto.FollowUpStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, dto.FollowUpStatusResponse{ID: st.ID, Name: st.Name})
	}
	return out, nil
}
