package database

import (
	"fmt"

	"innerai_backend/internal/logger"
	"innerai_backend/internal/models"

	"gorm.io/gorm"
)

var (
	defaultClients  = []string{"日昇科技", "遠誠貿易", "星河設計", "宏達建設"}
	defaultVendors  = []string{"青雲材料", "耀達製造", "風尚供應", "遠景工廠"}
	defaultProducts = []string{"智慧儀表 X1", "節能模組 A3", "自動化平台 Pro", "雲端控制盒"}
	defaultTags     = []string{"客戶跟進", "客戶匯報", "需求整理", "合約追蹤"}
	defaultStatuses = []string{"待處理", "進行中", models.FollowUpCompletedStatus}
)

// Seed заполняет справочники значениями по умолчанию, только если таблица пуста
func Seed(db *gorm.DB) error {
	steps := []struct {
		table string
		model interface{}
		rows  func() interface{}
	}{
		{"clients", &models.Client{}, func() interface{} {
			rows := make([]models.Client, 0, len(defaultClients))
			for _, name := range defaultClients {
				rows = append(rows, models.Client{Name: name})
			}
			return &rows
		}},
		{"vendors", &models.Vendor{}, func() interface{} {
			rows := make([]models.Vendor, 0, len(defaultVendors))
			for _, name := range defaultVendors {
				rows = append(rows, models.Vendor{Name: name})
			}
			return &rows
		}},
		{"products", &models.Product{}, func() interface{} {
			rows := make([]models.Product, 0, len(defaultProducts))
			for _, name := range defaultProducts {
				rows = append(rows, models.Product{Name: name})
			}
			return &rows
		}},
		{"task_tags", &models.TaskTag{}, func() interface{} {
			rows := make([]models.TaskTag, 0, len(defaultTags))
			for _, name := range defaultTags {
				rows = append(rows, models.TaskTag{Name: name})
			}
			return &rows
		}},
		{"follow_up_statuses", &models.FollowUpStatus{}, func() interface{} {
			rows := make([]models.FollowUpStatus, 0, len(defaultStatuses))
			for _, name := range defaultStatuses {
				rows = append(rows, models.FollowUpStatus{Name: name})
			}
			return &rows
		}},
	}

	for _, step := range steps {
		var count int64
		if err := db.Model(step.model).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count %s: %w", step.table, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(step.rows()).Error; err != nil {
			return fmt.Errorf("failed to seed %s: %w", step.table, err)
		}
		logger.Info("Seeded default rows", "table", step.table)
	}
	return nil
}
