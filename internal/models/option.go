package models

// Справочники для выпадающих списков формы

type Client struct {
	BaseModel
	Name string `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
}

func (Client) TableName() string { return "clients" }

type Vendor struct {
	BaseModel
	Name string `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
}

func (Vendor) TableName() string { return "vendors" }

type Product struct {
	BaseModel
	Name string `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
}

func (Product) TableName() string { return "products" }

type TaskTag struct {
	BaseModel
	Name string `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
}

func (TaskTag) TableName() string { return "task_tags" }

// FollowUpCompletedStatus - follow-up с другим статусом (или без статуса) считается незавершенным
const FollowUpCompletedStatus = "已完成"

type FollowUpStatus struct {
	BaseModel
	Name string `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
}

func (FollowUpStatus) TableName() string { return "follow_up_statuses" }
