package repositories

import (
	"errors"

	"innerai_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMeetingRecordNotFound = errors.New("meeting record not found")
)

type MeetingRepository interface {
	CreateFolder(db *gorm.DB, folder *models.MeetingFolder) error
	CreateRecords(db *gorm.DB, records []models.MeetingRecord) error

	// Link* добавляют пару, если ее еще нет
	LinkClientVendor(db *gorm.DB, client, vendor string) error
	LinkVendorProduct(db *gorm.DB, vendor, product string) error
	LinkProductMeeting(db *gorm.DB, product string, folderID uint) error

	ListClientVendorLinks(db *gorm.DB) ([]models.ClientVendorLink, error)
	ListVendorProductLinks(db *gorm.DB) ([]models.VendorProductLink, error)
	ListProductMeetingLinks(db *gorm.DB) ([]models.ProductMeetingLink, error)
	ListFolders(db *gorm.DB) ([]models.MeetingFolder, error)

	// ListRecordsMeta - записи без file_content
	ListRecordsMeta(db *gorm.DB) ([]models.MeetingRecord, error)
	FindRecord(db *gorm.DB, id uint) (*models.MeetingRecord, error)
}

type meetingRepository struct{}

func NewMeetingRepository() MeetingRepository {
	return &meetingRepository{}
}

func (r *meetingRepository) CreateFolder(db *gorm.DB, folder *models.MeetingFolder) error {
	return db.Create(folder).Error
}

func (r *meetingRepository) CreateRecords(db *gorm.DB, records []models.MeetingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return db.Create(&records).Error
}

func (r *meetingRepository) LinkClientVendor(db *gorm.DB, client, vendor string) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ClientVendorLink{ClientName: client, VendorName: vendor}).Error
}

func (r *meetingRepository) LinkVendorProduct(db *gorm.DB, vendor, product string) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.VendorProductLink{VendorName: vendor, ProductName: product}).Error
}

func (r *meetingRepository) LinkProductMeeting(db *gorm.DB, product string, folderID uint) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProductMeetingLink{ProductName: product, FolderID: folderID}).Error
}

func (r *meetingRepository) ListClientVendorLinks(db *gorm.DB) ([]models.ClientVendorLink, error) {
	var links []models.ClientVendorLink
	err := db.Order("client_name ASC, vendor_name ASC").Find(&links).Error
	return links, err
}

func (r *meetingRepository) ListVendorProductLinks(db *gorm.DB) ([]models.VendorProductLink, error) {
	var links []models.VendorProductLink
	err := db.Order("vendor_name ASC, product_name ASC").Find(&links).Error
	return links, err
}

func (r *meetingRepository) ListProductMeetingLinks(db *gorm.DB) ([]models.ProductMeetingLink, error) {
	var links []models.ProductMeetingLink
	err := db.Order("id ASC").Find(&links).Error
	return links, err
}

func (r *meetingRepository) ListFolders(db *gorm.DB) ([]models.MeetingFolder, error) {
	var folders []models.MeetingFolder
	err := db.Order("meeting_time DESC, id DESC").Find(&folders).Error
	return folders, err
}

func (r *meetingRepository) ListRecordsMeta(db *gorm.DB) ([]models.MeetingRecord, error) {
	var records []models.MeetingRecord
	err := db.Select("id", "created_at", "folder_id", "file_name", "file_path", "mime_type", "content_text").
		Order("id ASC").
		Find(&records).Error
	return records, err
}

func (r *meetingRepository) FindRecord(db *gorm.DB, id uint) (*models.MeetingRecord, error) {
	var record models.MeetingRecord
	if err := db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}
