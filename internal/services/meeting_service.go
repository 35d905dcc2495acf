package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"

	"innerai_backend/internal/logger"
	"innerai_backend/internal/models"
	"innerai_backend/internal/repositories"
	"innerai_backend/internal/services/dto"
	"innerai_backend/internal/storage"
	"innerai_backend/internal/utils"
	"innerai_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const meetingRecordsPrefix = "meeting-records"

// MeetingService - папки встреч с файлами и дерево client -> vendor -> product -> meeting
type MeetingService interface {
	CreateFolder(db *gorm.DB, req *dto.MeetingFolderRequest, actor *models.User) (*dto.MeetingFolderCreatedResponse, error)
	ListTree(db *gorm.DB) ([]dto.ClientNode, error)
	GetRecordFile(db *gorm.DB, id uint) (*models.MeetingRecord, error)
}

type MeetingServiceImpl struct {
	meetingRepo repositories.MeetingRepository
	storage     storage.Storage
}

func NewMeetingService(meetingRepo repositories.MeetingRepository, store storage.Storage) MeetingService {
	return &MeetingServiceImpl{
		meetingRepo: meetingRepo,
		storage:     store,
	}
}

// decodedFile - файл после base64 и определения типа
type decodedFile struct {
	name     string
	mimeType string
	content  []byte
}

func decodeFiles(files []dto.MeetingFileInput) ([]decodedFile, error) {
	details := map[string]string{}
	out := make([]decodedFile, 0, len(files))

	for i, f := range files {
		raw := strings.TrimSpace(f.ContentBase64)
		// data URL: "data:text/plain;base64,...."
		if idx := strings.Index(raw, ","); strings.HasPrefix(raw, "data:") && idx >= 0 {
			raw = raw[idx+1:]
		}
		content, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			details[fileField(i)] = "Must be valid base64"
			continue
		}

		name := path.Base(strings.ReplaceAll(strings.TrimSpace(f.Name), "\\", "/"))
		if name == "." || name == "/" || name == "" {
			details[fileField(i)] = "File name is required"
			continue
		}

		mimeType := strings.TrimSpace(f.Type)
		if mimeType == "" {
			mimeType = mimetype.Detect(content).String()
		}

		out = append(out, decodedFile{name: name, mimeType: mimeType, content: content})
	}

	if len(details) > 0 {
		return nil, apperrors.ValidationError(details)
	}
	return out, nil
}

func fileField(i int) string {
	return "files[" + strconv.Itoa(i) + "]"
}

// extractText - текстовое содержимое только для text/* и .txt
func extractText(f decodedFile) *string {
	if !strings.HasPrefix(strings.ToLower(f.mimeType), "text/") && !strings.HasSuffix(strings.ToLower(f.name), ".txt") {
		return nil
	}
	text := strings.ToValidUTF8(string(f.content), "�")
	return &text
}

func (s *MeetingServiceImpl) CreateFolder(db *gorm.DB, req *dto.MeetingFolderRequest, actor *models.User) (*dto.MeetingFolderCreatedResponse, error) {
	client := strings.TrimSpace(req.Client)
	vendor := strings.TrimSpace(req.Vendor)
	product := strings.TrimSpace(req.Product)
	if client == "" || vendor == "" || product == "" {
		return nil, apperrors.ValidationError(map[string]string{"client": "client, vendor and product are required"})
	}

	meetingTime, err := utils.NormalizeToTime(req.MeetingTime)
	if err != nil || meetingTime == nil {
		return nil, apperrors.ValidationError(map[string]string{"meeting_time": "Must be a valid date-time"})
	}
	if len(req.Files) == 0 {
		return nil, apperrors.ValidationError(map[string]string{"files": "At least one file is required"})
	}

	files, err := decodeFiles(req.Files)
	if err != nil {
		return nil, err
	}

	ctx := db.Statement.Context
	folder := &models.MeetingFolder{
		ClientName:     client,
		VendorName:     vendor,
		ProductName:    product,
		MeetingTime:    *meetingTime,
		CreatedByEmail: actor.Mail,
	}

	var saved []string
	var records []models.MeetingRecord

	err = runInTx(db, "create meeting folder", func(tx *gorm.DB) error {
		if err := s.meetingRepo.CreateFolder(tx, folder); err != nil {
			return storeError(tx, "create meeting folder", err)
		}
		if err := s.meetingRepo.LinkClientVendor(tx, client, vendor); err != nil {
			return storeError(tx, "link client vendor", err)
		}
		if err := s.meetingRepo.LinkVendorProduct(tx, vendor, product); err != nil {
			return storeError(tx, "link vendor product", err)
		}
		if err := s.meetingRepo.LinkProductMeeting(tx, product, folder.ID); err != nil {
			return storeError(tx, "link product meeting", err)
		}

		records = make([]models.MeetingRecord, 0, len(files))
		for _, f := range files {
			key := path.Join(meetingRecordsPrefix, strconv.FormatUint(uint64(folder.ID), 10), uuid.NewString()+"-"+f.name)
			if err := s.storage.Save(ctx, key, bytes.NewReader(f.content), f.mimeType); err != nil {
				logger.CtxWithError(ctx, "Failed to store meeting file", err, "key", key)
				return apperrors.InternalError(err)
			}
			saved = append(saved, key)

			records = append(records, models.MeetingRecord{
				FolderID:    folder.ID,
				FileName:    f.name,
				FilePath:    key,
				MimeType:    f.mimeType,
				FileContent: f.content,
				ContentText: extractText(f),
			})
		}
		if err := s.meetingRepo.CreateRecords(tx, records); err != nil {
			return storeError(tx, "create meeting records", err)
		}
		return nil
	})
	if err != nil {
		s.discard(ctx, saved)
		return nil, err
	}

	ids := make([]uint, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}

	logger.CtxInfo(ctx, "Meeting folder created", "folder_id", folder.ID, "files", len(records), "by", actor.Mail)
	return &dto.MeetingFolderCreatedResponse{ID: folder.ID, Records: ids}, nil
}

// discard удаляет объекты, записанные до отката транзакции
func (s *MeetingServiceImpl) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
			logger.CtxWithError(ctx, "Failed to discard stored meeting file", err, "key", key)
		}
	}
}

// ListTree обходит три таблицы связей по очереди и собирает дерево в памяти.
// Папка попадает под продукт, только если ее клиент и поставщик совпадают с веткой.
func (s *MeetingServiceImpl) ListTree(db *gorm.DB) ([]dto.ClientNode, error) {
	clientVendors, err := s.meetingRepo.ListClientVendorLinks(db)
	if err != nil {
		return nil, storeError(db, "list client vendor links", err)
	}
	vendorProducts, err := s.meetingRepo.ListVendorProductLinks(db)
	if err != nil {
		return nil, storeError(db, "list vendor product links", err)
	}
	productMeetings, err := s.meetingRepo.ListProductMeetingLinks(db)
	if err != nil {
		return nil, storeError(db, "list product meeting links", err)
	}
	folders, err := s.meetingRepo.ListFolders(db)
	if err != nil {
		return nil, storeError(db, "list meeting folders", err)
	}
	records, err := s.meetingRepo.ListRecordsMeta(db)
	if err != nil {
		return nil, storeError(db, "list meeting records", err)
	}

	recordsByFolder := make(map[uint][]dto.MeetingRecordResponse)
	for _, r := range records {
		recordsByFolder[r.FolderID] = append(recordsByFolder[r.FolderID], dto.MeetingRecordResponse{
			ID:          r.ID,
			FileName:    r.FileName,
			FilePath:    r.FilePath,
			MimeType:    r.MimeType,
			ContentText: r.ContentText,
			CreatedAt:   formatCreatedAt(r.CreatedAt),
		})
	}

	folderByID := make(map[uint]*models.MeetingFolder, len(folders))
	for i := range folders {
		folderByID[folders[i].ID] = &folders[i]
	}

	// карты владения: client -> vendors, vendor -> products, product -> folders
	vendorsOf := make(map[string][]string)
	clientOrder := make([]string, 0)
	for _, l := range clientVendors {
		if _, ok := vendorsOf[l.ClientName]; !ok {
			clientOrder = append(clientOrder, l.ClientName)
		}
		vendorsOf[l.ClientName] = append(vendorsOf[l.ClientName], l.VendorName)
	}
	productsOf := make(map[string][]string)
	for _, l := range vendorProducts {
		productsOf[l.VendorName] = append(productsOf[l.VendorName], l.ProductName)
	}
	foldersOf := make(map[string][]*models.MeetingFolder)
	for _, l := range productMeetings {
		if f, ok := folderByID[l.FolderID]; ok {
			foldersOf[l.ProductName] = append(foldersOf[l.ProductName], f)
		}
	}

	tree := make([]dto.ClientNode, 0, len(clientOrder))
	for _, client := range clientOrder {
		clientNode := dto.ClientNode{Name: client, Vendors: []dto.VendorNode{}}
		for _, vendor := range vendorsOf[client] {
			vendorNode := dto.VendorNode{Name: vendor, Products: []dto.ProductNode{}}
			for _, product := range productsOf[vendor] {
				productNode := dto.ProductNode{Name: product, Meetings: []dto.MeetingNode{}}
				for _, f := range foldersOf[product] {
					if f.ClientName != client || f.VendorName != vendor {
						continue
					}
					recs := recordsByFolder[f.ID]
					if recs == nil {
						recs = []dto.MeetingRecordResponse{}
					}
					productNode.Meetings = append(productNode.Meetings, dto.MeetingNode{
						ID:             f.ID,
						MeetingTime:    f.MeetingTime.UTC().Format(utils.DateTimeLayout),
						CreatedByEmail: f.CreatedByEmail,
						Records:        recs,
					})
				}
				if len(productNode.Meetings) > 0 {
					vendorNode.Products = append(vendorNode.Products, productNode)
				}
			}
			if len(vendorNode.Products) > 0 {
				clientNode.Vendors = append(clientNode.Vendors, vendorNode)
			}
		}
		if len(clientNode.Vendors) > 0 {
			tree = append(tree, clientNode)
		}
	}
	return tree, nil
}

// GetRecordFile возвращает запись с содержимым; если в БД байтов нет, читает из хранилища
func (s *MeetingServiceImpl) GetRecordFile(db *gorm.DB, id uint) (*models.MeetingRecord, error) {
	record, err := s.meetingRepo.FindRecord(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMeetingRecordNotFound) {
			return nil, apperrors.ErrMeetingRecordNotFound
		}
		return nil, storeError(db, "get meeting record", err)
	}

	if len(record.FileContent) == 0 && record.FilePath != "" {
		rc, err := s.storage.Get(db.Statement.Context, record.FilePath)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return record, nil
			}
			return nil, apperrors.InternalError(err)
		}
		defer rc.Close()
		if record.FileContent, err = io.ReadAll(rc); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	return record, nil
}
