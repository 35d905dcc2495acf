package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"innerai_backend/internal/logger"
	"innerai_backend/internal/models"
	"innerai_backend/internal/repositories"
	"innerai_backend/internal/services/dto"
	"innerai_backend/internal/utils"
	"innerai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const maxFollowUpLength = 2000

// SubmissionService - запись и чтение агрегата заявки
type SubmissionService interface {
	List(db *gorm.DB) ([]dto.SubmissionResponse, error)
	Create(db *gorm.DB, req *dto.SubmissionRequest, actor *models.User) (*dto.SubmissionCreatedResponse, error)
	Update(db *gorm.DB, id uint, req *dto.SubmissionRequest, actor *models.User) error
	Delete(db *gorm.DB, id uint, actor *models.User) error

	// FollowUpSummary - по дням scheduled_at для заявок, где участвует mail
	FollowUpSummary(db *gorm.DB, mail string) (map[string]dto.FollowUpDaySummary, error)
}

type SubmissionServiceImpl struct {
	userRepo       repositories.UserRepository
	submissionRepo repositories.SubmissionRepository
}

func NewSubmissionService(userRepo repositories.UserRepository, submissionRepo repositories.SubmissionRepository) SubmissionService {
	return &SubmissionServiceImpl{
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
	}
}

// preparedSubmission - провалидированные и нормализованные поля запроса
type preparedSubmission struct {
	submission models.TaskSubmission
	mails      []string
	tags       []string
	followUps  []models.SubmissionFollowUp
	statusIDs  []uint
}

// prepare проверяет то, что не выражается тегами валидатора; к БД не обращается
func prepare(req *dto.SubmissionRequest) (*preparedSubmission, error) {
	details := map[string]string{}

	p := &preparedSubmission{
		submission: models.TaskSubmission{
			ClientName:  strings.TrimSpace(req.Client),
			VendorName:  strings.TrimSpace(req.Vendor),
			ProductName: strings.TrimSpace(req.Product),
			Location:    strings.TrimSpace(req.Location),
		},
		mails: req.RelatedUserMail.Normalize(),
		tags:  req.Tag.Normalize(),
	}

	for field, value := range map[string]string{
		"client":  p.submission.ClientName,
		"vendor":  p.submission.VendorName,
		"product": p.submission.ProductName,
	} {
		if value == "" {
			details[field] = "This field is required"
		} else if utf8.RuneCountInString(value) > 255 {
			details[field] = "Must be at most 255"
		}
	}

	if len(p.tags) == 0 {
		details["tag"] = "At least one tag is required"
	}
	for _, tag := range p.tags {
		if utf8.RuneCountInString(tag) > 255 {
			details["tag"] = "Must be at most 255"
		}
	}
	if len(p.mails) == 0 {
		details["related_user_mail"] = "At least one related user is required"
	}

	var err error
	if p.submission.ScheduledAt, err = utils.NormalizeToTime(req.ScheduledAt); err != nil {
		details["scheduled_at"] = "Must be a valid date-time"
	}
	if p.submission.RecordedAt, err = utils.NormalizeToTime(req.RecordedAt); err != nil {
		details["recorded_at"] = "Must be a valid date-time"
	}

	seenStatus := map[uint]struct{}{}
	for _, item := range req.FollowUp {
		content := utils.SanitizeText(item.Content)
		if content == "" && item.StatusID == nil {
			continue
		}
		if utf8.RuneCountInString(content) > maxFollowUpLength {
			details["follow_up"] = "Must be at most 2000"
			continue
		}
		p.followUps = append(p.followUps, models.SubmissionFollowUp{Content: content, StatusID: item.StatusID})
		if item.StatusID != nil {
			if _, ok := seenStatus[*item.StatusID]; !ok {
				seenStatus[*item.StatusID] = struct{}{}
				p.statusIDs = append(p.statusIDs, *item.StatusID)
			}
		}
	}

	if len(details) > 0 {
		return nil, apperrors.ValidationError(details)
	}
	return p, nil
}

// verifyReferences проверяет пользователей и статусы внутри транзакции записи
func (s *SubmissionServiceImpl) verifyReferences(tx *gorm.DB, p *preparedSubmission) error {
	count, err := s.userRepo.CountByMails(tx, p.mails)
	if err != nil {
		return storeError(tx, "verify related users", err)
	}
	if count != int64(len(p.mails)) {
		return apperrors.ErrUnknownRelatedUser
	}

	if len(p.statusIDs) > 0 {
		count, err := s.submissionRepo.CountStatuses(tx, p.statusIDs)
		if err != nil {
			return storeError(tx, "verify follow-up statuses", err)
		}
		if count != int64(len(p.statusIDs)) {
			return apperrors.ErrUnknownFollowUpStatus
		}
	}
	return nil
}

func (s *SubmissionServiceImpl) writeChildren(tx *gorm.DB, id uint, p *preparedSubmission) error {
	if err := s.submissionRepo.ReplaceUsers(tx, id, p.mails); err != nil {
		return storeError(tx, "write submission users", err)
	}
	if err := s.submissionRepo.ReplaceTags(tx, id, p.tags); err != nil {
		return storeError(tx, "write submission tags", err)
	}
	if err := s.submissionRepo.ReplaceFollowUps(tx, id, p.followUps); err != nil {
		return storeError(tx, "write submission follow-ups", err)
	}
	return nil
}

// =======================
// Запись
// =======================

func (s *SubmissionServiceImpl) Create(db *gorm.DB, req *dto.SubmissionRequest, actor *models.User) (*dto.SubmissionCreatedResponse, error) {
	p, err := prepare(req)
	if err != nil {
		return nil, err
	}
	p.submission.CreatedByEmail = actor.Mail

	err = runInTx(db, "create submission", func(tx *gorm.DB) error {
		if err := s.verifyReferences(tx, p); err != nil {
			return err
		}
		if err := s.submissionRepo.Create(tx, &p.submission); err != nil {
			return storeError(tx, "create submission", err)
		}
		return s.writeChildren(tx, p.submission.ID, p)
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(db.Statement.Context, "Task submission created",
		"submission_id", p.submission.ID,
		"users", len(p.mails),
		"tags", len(p.tags),
		"follow_ups", len(p.followUps),
	)
	return &dto.SubmissionCreatedResponse{ID: p.submission.ID}, nil
}

// Update перезаписывает скалярные поля и полностью заменяет пользователей, теги и follow-up
func (s *SubmissionServiceImpl) Update(db *gorm.DB, id uint, req *dto.SubmissionRequest, actor *models.User) error {
	p, err := prepare(req)
	if err != nil {
		return err
	}

	err = runInTx(db, "update submission", func(tx *gorm.DB) error {
		if err := s.verifyReferences(tx, p); err != nil {
			return err
		}
		if err := s.submissionRepo.UpdateScalars(tx, id, &p.submission); err != nil {
			if errors.Is(err, repositories.ErrSubmissionNotFound) {
				return apperrors.ErrSubmissionNotFound
			}
			return storeError(tx, "update submission", err)
		}
		return s.writeChildren(tx, id, p)
	})
	if err != nil {
		return err
	}

	logger.CtxInfo(db.Statement.Context, "Task submission updated", "submission_id", id, "by", actor.Mail)
	return nil
}

func (s *SubmissionServiceImpl) Delete(db *gorm.DB, id uint, actor *models.User) error {
	err := runInTx(db, "delete submission", func(tx *gorm.DB) error {
		if err := s.submissionRepo.DeleteChildren(tx, id); err != nil {
			return storeError(tx, "delete submission", err)
		}
		if err := s.submissionRepo.Delete(tx, id); err != nil {
			if errors.Is(err, repositories.ErrSubmissionNotFound) {
				return apperrors.ErrSubmissionNotFound
			}
			return storeError(tx, "delete submission", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.CtxInfo(db.Statement.Context, "Task submission deleted", "submission_id", id, "by", actor.Mail)
	return nil
}

// =======================
// Чтение
// =======================

// List собирает три плоских выборки в список агрегатов в порядке первой выборки
func (s *SubmissionServiceImpl) List(db *gorm.DB) ([]dto.SubmissionResponse, error) {
	rows, err := s.submissionRepo.ListRows(db)
	if err != nil {
		return nil, storeError(db, "list submissions", err)
	}
	tags, err := s.submissionRepo.ListTags(db)
	if err != nil {
		return nil, storeError(db, "list submission tags", err)
	}
	followUps, err := s.submissionRepo.ListFollowUps(db)
	if err != nil {
		return nil, storeError(db, "list submission follow-ups", err)
	}

	order := make([]uint, 0)
	byID := make(map[uint]*dto.SubmissionResponse)

	for _, row := range rows {
		item, ok := byID[row.ID]
		if !ok {
			item = &dto.SubmissionResponse{
				ID:             row.ID,
				ClientName:     row.ClientName,
				VendorName:     row.VendorName,
				ProductName:    row.ProductName,
				ScheduledAt:    utils.FormatDateTime(row.ScheduledAt),
				Location:       row.Location,
				RecordedAt:     utils.FormatDateTime(row.RecordedAt),
				CreatedByEmail: row.CreatedByEmail,
				CreatedAt:      formatCreatedAt(row.CreatedAt),
				RelatedUsers:   []dto.RelatedUserResponse{},
				Tags:           []string{},
				FollowUps:      []dto.FollowUpResponse{},
			}
			byID[row.ID] = item
			order = append(order, row.ID)
		}
		if row.UserMail != nil {
			item.RelatedUsers = append(item.RelatedUsers, dto.RelatedUserResponse{
				Mail:     *row.UserMail,
				Username: deref(row.Username),
				Icon:     deref(row.Icon),
				IconBg:   deref(row.IconBg),
			})
		}
	}

	// строки дочерних таблиц без родителя пропускаются
	for _, tag := range tags {
		if item, ok := byID[tag.SubmissionID]; ok {
			item.Tags = append(item.Tags, tag.TagName)
		}
	}
	for _, f := range followUps {
		item, ok := byID[f.SubmissionID]
		if !ok {
			continue
		}
		item.FollowUps = append(item.FollowUps, dto.FollowUpResponse{
			ID:         f.ID,
			Content:    f.Content,
			StatusID:   f.StatusID,
			StatusName: f.StatusName,
			CreatedAt:  formatCreatedAt(f.CreatedAt),
		})
		if isPending(f.StatusName) {
			item.PendingFollowUps++
		}
	}

	result := make([]dto.SubmissionResponse, 0, len(order))
	for _, id := range order {
		result = append(result, *byID[id])
	}
	return result, nil
}

func (s *SubmissionServiceImpl) FollowUpSummary(db *gorm.DB, mail string) (map[string]dto.FollowUpDaySummary, error) {
	subs, err := s.submissionRepo.ListScheduledForMail(db, mail)
	if err != nil {
		return nil, storeError(db, "follow-up summary", err)
	}

	ids := make([]uint, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	followUps, err := s.submissionRepo.ListFollowUpsFor(db, ids)
	if err != nil {
		return nil, storeError(db, "follow-up summary", err)
	}

	bySubmission := make(map[uint][]repositories.FollowUpRow)
	for _, f := range followUps {
		bySubmission[f.SubmissionID] = append(bySubmission[f.SubmissionID], f)
	}

	summary := make(map[string]dto.FollowUpDaySummary)
	for _, sub := range subs {
		items := bySubmission[sub.ID]
		if len(items) == 0 || sub.ScheduledAt == nil {
			continue
		}
		key := sub.ScheduledAt.UTC().Format("2006-01-02")
		day := summary[key]
		day.Total += len(items)
		for _, f := range items {
			if isPending(f.StatusName) {
				day.Pending++
			}
		}
		summary[key] = day
	}
	return summary, nil
}

// isPending - follow-up без статуса или со статусом, отличным от завершенного
func isPending(statusName *string) bool {
	return statusName == nil || strings.TrimSpace(*statusName) != models.FollowUpCompletedStatus
}

// created_at пишется gorm в UTC; клиенту отдается стенное время UTC+8
func formatCreatedAt(t time.Time) string {
	return t.In(utils.Taipei).Format(utils.DateTimeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
