package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"innerai_backend/internal/logger"
	"innerai_backend/internal/services/dto"

	"gorm.io/gorm"
)

const healthTimeout = 3 * time.Second

// HealthService проверяет БД и доступность хоста Dify
type HealthService interface {
	Check(db *gorm.DB) dto.HealthResponse
}

type HealthServiceImpl struct {
	difyURL string
	client  *http.Client
}

func NewHealthService(difyURL string) HealthService {
	return &HealthServiceImpl{
		difyURL: strings.TrimSpace(difyURL),
		client:  &http.Client{Timeout: healthTimeout},
	}
}

func (s *HealthServiceImpl) Check(db *gorm.DB) dto.HealthResponse {
	ctx, cancel := context.WithTimeout(db.Statement.Context, healthTimeout)
	defer cancel()

	return dto.HealthResponse{
		Database: s.checkDatabase(ctx, db),
		Dify:     s.checkDify(ctx),
	}
}

func (s *HealthServiceImpl) checkDatabase(ctx context.Context, db *gorm.DB) bool {
	sqlDB, err := db.DB()
	if err != nil {
		logger.CtxWarn(ctx, "Database health check failed", "error", err)
		return false
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.CtxWarn(ctx, "Database health check failed", "error", err)
		return false
	}
	return true
}

// difyBaseURL - схема и хост из настроенного адреса; путь отбрасывается
func difyBaseURL(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// checkDify считает хост живым при любом HTTP-ответе
func (s *HealthServiceImpl) checkDify(ctx context.Context) bool {
	base := difyBaseURL(s.difyURL)
	if base == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		logger.CtxWarn(ctx, "Dify health check failed", "error", err)
		return false
	}
	resp.Body.Close()
	return true
}
