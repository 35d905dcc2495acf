package dto

// MeetingFileInput - файл в base64 внутри JSON
type MeetingFileInput struct {
	Name          string `json:"name" validate:"notblank,max=255"`
	Type          string `json:"type" validate:"max=255"`
	ContentBase64 string `json:"contentBase64" validate:"required"`
}

type MeetingFolderRequest struct {
	Client      string             `json:"client" validate:"notblank,max=255"`
	Vendor      string             `json:"vendor" validate:"notblank,max=255"`
	Product     string             `json:"product" validate:"notblank,max=255"`
	MeetingTime string             `json:"meeting_time" validate:"notblank,datetime-input"`
	Files       []MeetingFileInput `json:"files" validate:"required,min=1,dive"`
}

type MeetingFolderCreatedResponse struct {
	ID      uint   `json:"id"`
	Records []uint `json:"records"`
}

type MeetingRecordResponse struct {
	ID          uint    `json:"id"`
	FileName    string  `json:"file_name"`
	FilePath    string  `json:"file_path"`
	MimeType    string  `json:"mime_type"`
	ContentText *string `json:"content_text"`
	CreatedAt   string  `json:"created_at"`
}

type MeetingNode struct {
	ID             uint                    `json:"id"`
	MeetingTime    string                  `json:"meeting_time"`
	CreatedByEmail string                  `json:"created_by_email"`
	Records        []MeetingRecordResponse `json:"records"`
}

type ProductNode struct {
	Name     string        `json:"name"`
	Meetings []MeetingNode `json:"meetings"`
}

type VendorNode struct {
	Name     string        `json:"name"`
	Products []ProductNode `json:"products"`
}

// ClientNode - корень дерева client -> vendors -> products -> meetings -> records
type ClientNode struct {
	Name    string       `json:"name"`
	Vendors []VendorNode `json:"vendors"`
}
