package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_RendersVerificationCode(t *testing.T) {
	tm := NewTemplateManager()

	html, err := tm.Render(TemplateVerificationCode, TemplateData{"Code": "012345", "Minutes": 10})
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>012345</strong>")
	assert.Contains(t, html, "10 分鐘")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestTemplateManager_EscapesData(t *testing.T) {
	tm := NewTemplateManager()
	html, err := tm.Render(TemplateVerificationCode, TemplateData{"Code": "<b>", "Minutes": 1})
	require.NoError(t, err)
	assert.NotContains(t, html, "<strong><b>")
}

func TestGomailProvider_Validate(t *testing.T) {
	p := NewGomailProvider(&SMTPConfig{Port: 587}, NewTemplateManager())
	assert.Error(t, p.Validate())

	p = NewGomailProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "noreply@example.com"}, NewTemplateManager())
	assert.NoError(t, p.Validate())
}

func TestLogProvider(t *testing.T) {
	p := NewLogProvider()
	assert.NoError(t, p.Validate())
	assert.NoError(t, p.SendVerificationCode("a@example.com", "123456", 10*time.Minute))
}
