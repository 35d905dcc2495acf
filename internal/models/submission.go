package models

import "time"

// TaskSubmission - корень агрегата; пользователи, теги и follow-up хранятся в отдельных таблицах
type TaskSubmission struct {
	BaseModel
	ClientName     string     `gorm:"column:client_name;type:varchar(255);not null"`
	VendorName     string     `gorm:"column:vendor_name;type:varchar(255);not null"`
	ProductName    string     `gorm:"column:product_name;type:varchar(255);not null"`
	ScheduledAt    *time.Time `gorm:"column:scheduled_at"`
	Location       string     `gorm:"column:location;type:varchar(255)"`
	RecordedAt     *time.Time `gorm:"column:recorded_at"`
	CreatedByEmail string     `gorm:"column:created_by_email;type:varchar(255)"`
}

func (TaskSubmission) TableName() string {
	return "task_submissions"
}

type SubmissionUser struct {
	BaseModel
	SubmissionID uint   `gorm:"column:submission_id;index;not null"`
	UserMail     string `gorm:"column:user_mail;type:varchar(255);not null"`
}

func (SubmissionUser) TableName() string {
	return "task_submission_users"
}

type SubmissionTag struct {
	BaseModel
	SubmissionID uint   `gorm:"column:submission_id;index;not null"`
	TagName      string `gorm:"column:tag_name;type:varchar(255);not null"`
}

func (SubmissionTag) TableName() string {
	return "task_submission_tags"
}

type SubmissionFollowUp struct {
	BaseModel
	SubmissionID uint   `gorm:"column:submission_id;index;not null"`
	Content      string `gorm:"column:content;type:text"`
	StatusID     *uint  `gorm:"column:status_id"`
}

func (SubmissionFollowUp) TableName() string {
	return "task_submission_follow_ups"
}
