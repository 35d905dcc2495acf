package models

import "time"

// MeetingFolder группирует файлы одной встречи
type MeetingFolder struct {
	BaseModel
	ClientName     string    `gorm:"column:client_name;type:varchar(255);not null"`
	VendorName     string    `gorm:"column:vendor_name;type:varchar(255);not null"`
	ProductName    string    `gorm:"column:product_name;type:varchar(255);not null"`
	MeetingTime    time.Time `gorm:"column:meeting_time;not null"`
	CreatedByEmail string    `gorm:"column:created_by_email;type:varchar(255)"`
}

func (MeetingFolder) TableName() string {
	return "meeting_folders"
}

type MeetingRecord struct {
	BaseModel
	FolderID    uint    `gorm:"column:folder_id;index;not null"`
	FileName    string  `gorm:"column:file_name;type:varchar(255);not null"`
	FilePath    string  `gorm:"column:file_path;type:varchar(512)"`
	MimeType    string  `gorm:"column:mime_type;type:varchar(255)"`
	FileContent []byte  `gorm:"column:file_content"`
	ContentText *string `gorm:"column:content_text"`
}

func (MeetingRecord) TableName() string {
	return "meeting_records"
}

// Таблицы связей: только добавление, уникальная пара. Нужны для сборки дерева
// client -> vendor -> product -> meeting без рекурсивных запросов.

type ClientVendorLink struct {
	BaseModel
	ClientName string `gorm:"column:client_name;type:varchar(255);not null;uniqueIndex:idx_client_vendor"`
	VendorName string `gorm:"column:vendor_name;type:varchar(255);not null;uniqueIndex:idx_client_vendor"`
}

func (ClientVendorLink) TableName() string {
	return "client_vendor_links"
}

type VendorProductLink struct {
	BaseModel
	VendorName  string `gorm:"column:vendor_name;type:varchar(255);not null;uniqueIndex:idx_vendor_product"`
	ProductName string `gorm:"column:product_name;type:varchar(255);not null;uniqueIndex:idx_vendor_product"`
}

func (VendorProductLink) TableName() string {
	return "vendor_product_links"
}

type ProductMeetingLink struct {
	BaseModel
	ProductName string `gorm:"column:product_name;type:varchar(255);not null;uniqueIndex:idx_product_meeting"`
	FolderID    uint   `gorm:"column:folder_id;not null;uniqueIndex:idx_product_meeting"`
}

func (ProductMeetingLink) TableName() string {
	return "product_meeting_links"
}
