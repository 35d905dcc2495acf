package repositories

import (
	"errors"

	"innerai_backend/internal/models"

	"gorm.io/gorm"
)

// OptionKind - тип справочника в /api/options/:type
type OptionKind string

const (
	OptionClient  OptionKind = "client"
	OptionVendor  OptionKind = "vendor"
	OptionProduct OptionKind = "product"
	OptionTag     OptionKind = "tag"
)

var ErrUnknownOptionKind = errors.New("unknown option kind")

type OptionRepository interface {
	ListNames(db *gorm.DB, kind OptionKind) ([]string, error)
	Create(db *gorm.DB, kind OptionKind, name string) error
	ListStatuses(db *gorm.DB) ([]models.FollowUpStatus, error)
}

type optionRepository struct{}

func NewOptionRepository() OptionRepository {
	return &optionRepository{}
}

func optionModel(kind OptionKind, name string) (interface{}, error) {
	switch kind {
	case OptionClient:
		return &models.Client{Name: name}, nil
	case OptionVendor:
		return &models.Vendor{Name: name}, nil
	case OptionProduct:
		return &models.Product{Name: name}, nil
	case OptionTag:
		return &models.TaskTag{Name: name}, nil
	}
	return nil, ErrUnknownOptionKind
}

func (r *optionRepository) ListNames(db *gorm.DB, kind OptionKind) ([]string, error) {
	model, err := optionModel(kind, "")
	if err != nil {
		return nil, err
	}
	names := []string{}
	err = db.Model(model).Order("name ASC").Pluck("name", &names).Error
	return names, err
}

func (r *optionRepository) Create(db *gorm.DB, kind OptionKind, name string) error {
	model, err := optionModel(kind, name)
	if err != nil {
		return err
	}
	return db.Create(model).Error
}

func (r *optionRepository) ListStatuses(db *gorm.DB) ([]models.FollowUpStatus, error) {
	var statuses []models.FollowUpStatus
	err := db.Order("id ASC").Find(&statuses).Error
	return statuses, err
}
