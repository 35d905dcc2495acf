package email

import "time"

// Provider - канал доставки кода подтверждения регистрации
type Provider interface {
	// SendVerificationCode отправляет одноразовый код на адрес
	SendVerificationCode(to, code string, ttl time.Duration) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}
