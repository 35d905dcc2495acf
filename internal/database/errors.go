package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ViolationKind string

const (
	ViolationUnique     ViolationKind = "unique"
	ViolationForeignKey ViolationKind = "foreign_key"
)

// ConstraintViolation - нарушение ограничения БД, переведенное из кода конкретного драйвера
type ConstraintViolation struct {
	Kind ViolationKind
	Err  error
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("%s constraint violation: %v", e.Kind, e.Err)
}

func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}

// Коды ошибок драйверов
const (
	mysqlDuplicateEntry  = 1062
	mysqlForeignKey      = 1452
	mysqlDuplicateColumn = 1060

	pgUniqueViolation = "23505"
	pgForeignKey      = "23503"
	pgDuplicateColumn = "42701"
)

// TranslateError превращает ошибки уникальности и внешних ключей в *ConstraintViolation.
// Остальные ошибки возвращаются без изменений.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var cv *ConstraintViolation
	if errors.As(err, &cv) {
		return err
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConstraintViolation{Kind: ViolationUnique, Err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &ConstraintViolation{Kind: ViolationForeignKey, Err: err}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return &ConstraintViolation{Kind: ViolationUnique, Err: err}
		case mysqlForeignKey:
			return &ConstraintViolation{Kind: ViolationForeignKey, Err: err}
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ConstraintViolation{Kind: ViolationUnique, Err: err}
		case pgForeignKey:
			return &ConstraintViolation{Kind: ViolationForeignKey, Err: err}
		}
		return err
	}

	// sqlite не экспортирует типизированную ошибку через glebarez
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &ConstraintViolation{Kind: ViolationUnique, Err: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &ConstraintViolation{Kind: ViolationForeignKey, Err: err}
	}

	return err
}

// IsUniqueViolation - сокращение для сервисов
func IsUniqueViolation(err error) bool {
	var cv *ConstraintViolation
	return errors.As(TranslateError(err), &cv) && cv.Kind == ViolationUnique
}

// IsDuplicateColumn сообщает, что ALTER TABLE ADD COLUMN упал из-за уже существующей колонки
func IsDuplicateColumn(err error) bool {
	if err == nil {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateColumn
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDuplicateColumn
	}

	return strings.Contains(err.Error(), "duplicate column name")
}
