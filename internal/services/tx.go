package services

import (
	"fmt"

	"innerai_backend/internal/logger"
	"innerai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// runInTx выполняет fn в одной транзакции. Ошибка отката только логируется
// и не подменяет исходную ошибку.
func runInTx(db *gorm.DB, operation string, fn func(tx *gorm.DB) error) (err error) {
	ctx := db.Statement.Context

	tx := db.Begin()
	if tx.Error != nil {
		logger.CtxWithError(ctx, "Failed to begin transaction", tx.Error, "operation", operation)
		return apperrors.DatabaseError(tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(tx, operation)
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		rollback(tx, operation)
		return err
	}

	if err = tx.Commit().Error; err != nil {
		logger.CtxWithError(ctx, "Failed to commit transaction", err, "operation", operation)
		return apperrors.DatabaseError(err)
	}
	return nil
}

func rollback(tx *gorm.DB, operation string) {
	if err := tx.Rollback().Error; err != nil {
		logger.CtxError(tx.Statement.Context, "Transaction rollback failed",
			"operation", operation,
			"error", err,
		)
	}
}

// storeError оборачивает неожиданную ошибку хранилища; клиент увидит только общее сообщение
func storeError(db *gorm.DB, operation string, err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	logger.CtxWithError(db.Statement.Context, fmt.Sprintf("Store failure in %s", operation), err)
	return apperrors.DatabaseError(err)
}
