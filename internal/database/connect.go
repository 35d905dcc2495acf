package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"innerai_backend/internal/config"
	"innerai_backend/internal/logger"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open подключается к БД выбранного драйвера. Для mysql и postgres сначала
// создается сама база, если ее еще нет.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Database.Driver)

	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dsn, err := ensureMySQLDatabase(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		dialector = gormmysql.Open(dsn)
	case DriverPostgres:
		if err := ensurePostgresDatabase(ctx, cfg.Database.DSN); err != nil {
			return nil, err
		}
		dialector = postgres.Open(cfg.Database.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, GormConfig(cfg.Server.Env))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	logger.Info("Database connected", "driver", driver)
	return db, nil
}

// GormConfig - общая конфигурация GORM; время пишется в UTC
func GormConfig(env string) *gorm.Config {
	level := gormlogger.Warn
	if env == "development" {
		level = gormlogger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Close закрывает пул соединений
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get *sql.DB for close", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
		return
	}
	logger.Info("Database connection closed")
}

// ensureMySQLDatabase выполняет CREATE DATABASE IF NOT EXISTS на сервере без выбранной базы
// и возвращает DSN с parseTime и UTC.
func ensureMySQLDatabase(dsn string) (string, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	mcfg.ParseTime = true
	mcfg.Loc = time.UTC
	// RowsAffected = найденные строки, а не измененные: UPDATE без изменений не должен выглядеть как 404
	mcfg.ClientFoundRows = true
	if mcfg.Params == nil {
		mcfg.Params = map[string]string{}
	}
	if _, ok := mcfg.Params["charset"]; !ok {
		mcfg.Params["charset"] = "utf8mb4"
	}

	dbName := mcfg.DBName
	if dbName == "" {
		return "", fmt.Errorf("mysql dsn has no database name")
	}

	serverCfg := mcfg.Clone()
	serverCfg.DBName = ""
	server, err := gorm.Open(gormmysql.Open(serverCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return "", fmt.Errorf("failed to connect to mysql server: %w", err)
	}
	defer Close(server)

	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci",
		strings.ReplaceAll(dbName, "`", "``"))
	if err := server.Exec(stmt).Error; err != nil {
		return "", fmt.Errorf("failed to create database %s: %w", dbName, err)
	}

	return mcfg.FormatDSN(), nil
}

// ensurePostgresDatabase подключается к служебной базе postgres и создает целевую базу при отсутствии
func ensurePostgresDatabase(ctx context.Context, dsn string) error {
	pcfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("invalid postgres dsn: %w", err)
	}
	dbName := pcfg.Database
	if dbName == "" || dbName == "postgres" {
		return nil
	}

	pcfg.Database = "postgres"
	conn, err := pgx.ConnectConfig(ctx, pcfg)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check database %s: %w", dbName, err)
	}
	if exists {
		return nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create database %s: %w", dbName, err)
	}
	logger.Info("Database created", "name", dbName)
	return nil
}
