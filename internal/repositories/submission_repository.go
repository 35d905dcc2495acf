package repositories

import (
	"errors"
	"time"

	"innerai_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("task submission not found")
)

// SubmissionRow - строка task_submissions LEFT JOIN task_submission_users LEFT JOIN users.
// Пользовательские поля пустые, если у заявки нет связанных пользователей.
type SubmissionRow struct {
	ID             uint
	ClientName     string
	VendorName     string
	ProductName    string
	ScheduledAt    *time.Time
	Location       string
	RecordedAt     *time.Time
	CreatedByEmail string
	CreatedAt      time.Time
	UserMail       *string
	Username       *string
	Icon           *string
	IconBg         *string
}

type SubmissionTagRow struct {
	SubmissionID uint
	TagName      string
}

type FollowUpRow struct {
	ID           uint
	SubmissionID uint
	Content      string
	StatusID     *uint
	StatusName   *string
	CreatedAt    time.Time
}

type SubmissionRepository interface {
	Create(db *gorm.DB, sub *models.TaskSubmission) error
	// UpdateScalars обновляет скалярные колонки; ErrSubmissionNotFound если строки нет
	UpdateScalars(db *gorm.DB, id uint, sub *models.TaskSubmission) error
	// Delete удаляет саму заявку; ErrSubmissionNotFound если строки нет
	Delete(db *gorm.DB, id uint) error

	ReplaceUsers(db *gorm.DB, id uint, mails []string) error
	ReplaceTags(db *gorm.DB, id uint, tags []string) error
	ReplaceFollowUps(db *gorm.DB, id uint, followUps []models.SubmissionFollowUp) error
	DeleteChildren(db *gorm.DB, id uint) error

	CountStatuses(db *gorm.DB, ids []uint) (int64, error)

	ListRows(db *gorm.DB) ([]SubmissionRow, error)
	ListTags(db *gorm.DB) ([]SubmissionTagRow, error)
	ListFollowUps(db *gorm.DB) ([]FollowUpRow, error)

	// ListScheduledForMail - заявки с датой, в которых участвует пользователь
	ListScheduledForMail(db *gorm.DB, mail string) ([]models.TaskSubmission, error)
	ListFollowUpsFor(db *gorm.DB, ids []uint) ([]FollowUpRow, error)
}

type submissionRepository struct{}

func NewSubmissionRepository() SubmissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) Create(db *gorm.DB, sub *models.TaskSubmission) error {
	return db.Create(sub).Error
}

func (r *submissionRepository) UpdateScalars(db *gorm.DB, id uint, sub *models.TaskSubmission) error {
	// map, а не структура: nil-значения времени тоже записываются
	result := db.Model(&models.TaskSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"client_name":  sub.ClientName,
			"vendor_name":  sub.VendorName,
			"product_name": sub.ProductName,
			"scheduled_at": sub.ScheduledAt,
			"location":     sub.Location,
			"recorded_at":  sub.RecordedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (r *submissionRepository) Delete(db *gorm.DB, id uint) error {
	result := db.Where("id = ?", id).Delete(&models.TaskSubmission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (r *submissionRepository) ReplaceUsers(db *gorm.DB, id uint, mails []string) error {
	if err := db.Where("submission_id = ?", id).Delete(&models.SubmissionUser{}).Error; err != nil {
		return err
	}
	if len(mails) == 0 {
		return nil
	}
	rows := make([]models.SubmissionUser, 0, len(mails))
	for _, mail := range mails {
		rows = append(rows, models.SubmissionUser{SubmissionID: id, UserMail: mail})
	}
	return db.Create(&rows).Error
}

func (r *submissionRepository) ReplaceTags(db *gorm.DB, id uint, tags []string) error {
	if err := db.Where("submission_id = ?", id).Delete(&models.SubmissionTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	rows := make([]models.SubmissionTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, models.SubmissionTag{SubmissionID: id, TagName: tag})
	}
	return db.Create(&rows).Error
}

func (r *submissionRepository) ReplaceFollowUps(db *gorm.DB, id uint, followUps []models.SubmissionFollowUp) error {
	if err := db.Where("submission_id = ?", id).Delete(&models.SubmissionFollowUp{}).Error; err != nil {
		return err
	}
	if len(followUps) == 0 {
		return nil
	}
	for i := range followUps {
		followUps[i].SubmissionID = id
	}
	return db.Create(&followUps).Error
}

func (r *submissionRepository) DeleteChildren(db *gorm.DB, id uint) error {
	for _, model := range []interface{}{&models.SubmissionUser{}, &models.SubmissionTag{}, &models.SubmissionFollowUp{}} {
		if err := db.Where("submission_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *submissionRepository) CountStatuses(db *gorm.DB, ids []uint) (int64, error) {
	var count int64
	err := db.Model(&models.FollowUpStatus{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *submissionRepository) ListRows(db *gorm.DB) ([]SubmissionRow, error) {
	var rows []SubmissionRow
	err := db.Table("task_submissions AS s").
		Select(`s.id, s.client_name, s.vendor_name, s.product_name, s.scheduled_at, s.location,
			s.recorded_at, s.created_by_email, s.created_at,
			su.user_mail, u.username, u.icon, u.icon_bg`).
		Joins("LEFT JOIN task_submission_users su ON su.submission_id = s.id").
		Joins("LEFT JOIN users u ON u.mail = su.user_mail").
		Order("s.created_at DESC, s.id DESC, su.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *submissionRepository) ListTags(db *gorm.DB) ([]SubmissionTagRow, error) {
	var rows []SubmissionTagRow
	err := db.Model(&models.SubmissionTag{}).
		Select("submission_id, tag_name").
		Order("id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *submissionRepository) ListFollowUps(db *gorm.DB) ([]FollowUpRow, error) {
	return r.followUps(db, nil)
}

func (r *submissionRepository) ListFollowUpsFor(db *gorm.DB, ids []uint) ([]FollowUpRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.followUps(db, ids)
}

func (r *submissionRepository) followUps(db *gorm.DB, ids []uint) ([]FollowUpRow, error) {
	var rows []FollowUpRow
	q := db.Table("task_submission_follow_ups AS f").
		Select("f.id, f.submission_id, f.content, f.status_id, st.name AS status_name, f.created_at").
		Joins("LEFT JOIN follow_up_statuses st ON st.id = f.status_id")
	if ids != nil {
		q = q.Where("f.submission_id IN ?", ids)
	}
	err := q.Order("f.id ASC").Scan(&rows).Error
	return rows, err
}

func (r *submissionRepository) ListScheduledForMail(db *gorm.DB, mail string) ([]models.TaskSubmission, error) {
	var subs []models.TaskSubmission
	err := db.Model(&models.TaskSubmission{}).
		Where("scheduled_at IS NOT NULL").
		Where("id IN (?)", db.Model(&models.SubmissionUser{}).Select("submission_id").Where("user_mail = ?", mail)).
		Order("scheduled_at ASC, id ASC").
		Find(&subs).Error
	return subs, err
}
