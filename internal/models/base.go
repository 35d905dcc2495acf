package models

import "time"

// BaseModel - автоинкрементный id и created_at, общие для всех таблиц
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AllModels - порядок создания таблиц мигратором
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&AuthToken{},
		&VerificationCode{},
		&Client{},
		&Vendor{},
		&Product{},
		&TaskTag{},
		&FollowUpStatus{},
		&TaskSubmission{},
		&SubmissionUser{},
		&SubmissionTag{},
		&SubmissionFollowUp{},
		&MeetingFolder{},
		&MeetingRecord{},
		&ClientVendorLink{},
		&VendorProductLink{},
		&ProductMeetingLink{},
	}
}
