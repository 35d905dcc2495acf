package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"innerai_backend/internal/utils"
)

// FollowUpInput принимает как строку, так и {"content": ..., "status_id": ...}
type FollowUpInput struct {
	Content  string `json:"content" validate:"max=2000"`
	StatusID *uint  `json:"status_id"`
}

func (f *FollowUpInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &f.Content)
	}

	type plain FollowUpInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("follow_up item must be a string or an object: %w", err)
	}
	*f = FollowUpInput(p)
	return nil
}

// SubmissionRequest - тело POST/PUT /api/task-submissions
type SubmissionRequest struct {
	Client          string           `json:"client" validate:"notblank,max=255"`
	Vendor          string           `json:"vendor" validate:"notblank,max=255"`
	Product         string           `json:"product" validate:"notblank,max=255"`
	Tag             utils.StringList `json:"tag"`
	RelatedUserMail utils.StringList `json:"related_user_mail"`
	Location        string           `json:"location" validate:"max=255"`
	FollowUp        []FollowUpInput  `json:"follow_up" validate:"omitempty,dive"`
	ScheduledAt     string           `json:"scheduled_at" validate:"omitempty,datetime-input"`
	RecordedAt      string           `json:"recorded_at" validate:"omitempty,datetime-input"`
}

type SubmissionCreatedResponse struct {
	ID uint `json:"id"`
}

type RelatedUserResponse struct {
	Mail     string `json:"mail"`
	Username string `json:"username"`
	Icon     string `json:"icon"`
	IconBg   string `json:"icon_bg"`
}

type FollowUpResponse struct {
	ID         uint    `json:"id"`
	Content    string  `json:"content"`
	StatusID   *uint   `json:"status_id"`
	StatusName *string `json:"status_name"`
	CreatedAt  string  `json:"created_at"`
}

// SubmissionResponse - агрегат заявки для списка
type SubmissionResponse struct {
	ID               uint                  `json:"id"`
	ClientName       string                `json:"client_name"`
	VendorName       string                `json:"vendor_name"`
	ProductName      string                `json:"product_name"`
	ScheduledAt      *string               `json:"scheduled_at"`
	Location         string                `json:"location"`
	RecordedAt       *string               `json:"recorded_at"`
	CreatedByEmail   string                `json:"created_by_email"`
	CreatedAt        string                `json:"created_at"`
	RelatedUsers     []RelatedUserResponse `json:"related_users"`
	Tags             []string              `json:"tags"`
	FollowUps        []FollowUpResponse    `json:"follow_ups"`
	PendingFollowUps int                   `json:"pending_follow_ups"`
}

// FollowUpDaySummary - счетчики follow-up за день
type FollowUpDaySummary struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
}
