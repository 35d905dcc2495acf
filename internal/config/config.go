package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		CORSOrigins []string `yaml:"cors_origins"`
		StaticDir   string   `yaml:"static_dir"` // собранный фронтенд, опционально
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // mysql, postgres, sqlite
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	Auth struct {
		TokenSecret                string `yaml:"token_secret"`
		TokenTTLMinutes            int    `yaml:"token_ttl_minutes"`
		VerificationCodeTTLMinutes int    `yaml:"verification_code_ttl_minutes"`
		KDFIterations              int    `yaml:"kdf_iterations"`
	} `yaml:"auth"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		Type      string `yaml:"type"`      // local, s3
		BasePath  string `yaml:"base_path"` // для local
		Bucket    string `yaml:"bucket"`    // для s3
		Region    string `yaml:"region"`
		Endpoint  string `yaml:"endpoint"` // S3-совместимые хранилища (MinIO, R2)
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"storage"`

	Dify struct {
		URL string `yaml:"url"`
	} `yaml:"dify"`

	Workers struct {
		SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	} `yaml:"workers"`
}

// Load читает config.yaml (CONFIG_PATH) и накладывает переменные окружения.
// Если файла нет, конфигурация строится только из окружения; DATABASE_URL тогда обязателен.
func Load() (*Config, error) {
	cfg := &Config{}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		if os.Getenv("DATABASE_URL") == "" {
			return nil, fmt.Errorf("config file %s not found and DATABASE_URL is not set", configPath)
		}
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setInt(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setString(&cfg.Server.StaticDir, "STATIC_DIR")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}

	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")

	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	setInt(&cfg.Auth.TokenTTLMinutes, "TOKEN_TTL_MINUTES")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.BasePath, "STORAGE_BASE_PATH")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.Region, "STORAGE_REGION")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")

	setString(&cfg.Dify.URL, "DIFY_URL")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "production"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Auth.TokenTTLMinutes == 0 {
		cfg.Auth.TokenTTLMinutes = 60
	}
	if cfg.Auth.VerificationCodeTTLMinutes == 0 {
		cfg.Auth.VerificationCodeTTLMinutes = 10
	}
	if cfg.Auth.KDFIterations == 0 {
		cfg.Auth.KDFIterations = 100000
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Workers.SweepIntervalSeconds == 0 {
		cfg.Workers.SweepIntervalSeconds = 300
	}
}

// TokenTTL - время жизни bearer-токена
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// VerificationCodeTTL - время жизни кода подтверждения регистрации
func (c *Config) VerificationCodeTTL() time.Duration {
	return time.Duration(c.Auth.VerificationCodeTTLMinutes) * time.Minute
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Workers.SweepIntervalSeconds) * time.Second
}

// SMTPEnabled - отправлять ли коды реальной почтой
func (c *Config) SMTPEnabled() bool {
	return c.Email.SMTPHost != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
