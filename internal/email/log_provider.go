package email

import (
	"time"

	"innerai_backend/internal/logger"
)

// LogProvider пишет код в лог вместо отправки; используется без SMTP
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Validate() error { return nil }

func (p *LogProvider) SendVerificationCode(to, code string, ttl time.Duration) error {
	logger.Warn("SMTP is not configured, verification code written to log",
		"mail", to,
		"code", code,
		"ttl", ttl.String(),
	)
	return nil
}
