package database

import (
	"fmt"

	"innerai_backend/internal/logger"
	"innerai_backend/internal/models"

	"gorm.io/gorm"
)

// columnStep - добавление колонки, появившейся после первой версии схемы
type columnStep struct {
	model interface{}
	field string
}

// Порядок важен: шаги применяются последовательно при каждом старте
var addColumnSteps = []columnStep{
	{&models.User{}, "Icon"},
	{&models.User{}, "IconBg"},
	{&models.User{}, "Username"},
	{&models.User{}, "Role"},
	{&models.TaskSubmission{}, "Location"},
	{&models.TaskSubmission{}, "RecordedAt"},
	{&models.TaskSubmission{}, "CreatedByEmail"},
	{&models.SubmissionFollowUp{}, "StatusID"},
	{&models.MeetingRecord{}, "MimeType"},
	{&models.MeetingRecord{}, "ContentText"},
}

// Колонки, которые в ранних версиях были NOT NULL
var relaxNotNullSteps = []columnStep{
	{&models.TaskSubmission{}, "ScheduledAt"},
	{&models.MeetingRecord{}, "FilePath"},
}

// Migrate создает недостающие таблицы, затем применяет добавочные изменения.
// Безопасно запускать на уже мигрированной базе с данными.
func Migrate(db *gorm.DB) error {
	m := db.Migrator()

	for _, model := range models.AllModels() {
		if m.HasTable(model) {
			continue
		}
		if err := m.CreateTable(model); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
		logger.Info("Table created", "model", fmt.Sprintf("%T", model))
	}

	for _, step := range addColumnSteps {
		if err := m.AddColumn(step.model, step.field); err != nil {
			if IsDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("failed to add column %T.%s: %w", step.model, step.field, err)
		}
		logger.Info("Column added", "model", fmt.Sprintf("%T", step.model), "field", step.field)
	}

	// sqlite не умеет ALTER COLUMN без пересоздания таблицы
	if db.Dialector.Name() != DriverSQLite {
		for _, step := range relaxNotNullSteps {
			if err := m.AlterColumn(step.model, step.field); err != nil {
				return fmt.Errorf("failed to alter column %T.%s: %w", step.model, step.field, err)
			}
		}
	}

	logger.Info("Schema migration completed")
	return nil
}
