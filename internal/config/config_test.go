package config_test

import (
	"testing"
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8000", cfg.HTTP.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "*/15 * * * *", cfg.Scheduler.OverdueSpec)
	assert.Equal(t, 30*time.Second, cfg.Odoo.Timeout)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ODOO_URL", "https://erp.example.com")
	t.Setenv("ODOO_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("MANAGER_EMAILS", "ops@example.com, lead@example.com")
	t.Setenv("SMTP_USE_TLS", "false")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "https://erp.example.com", cfg.Odoo.URL)
	assert.Equal(t, 45*time.Second, cfg.Odoo.Timeout)
	assert.Equal(t, 5.5, cfg.HTTP.RateLimitRPS)
	assert.Equal(t, []string{"ops@example.com", "lead@example.com"}, cfg.Notify.ManagerEmails)
	assert.False(t, cfg.SMTP.UseTLS)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("ODOO_TIMEOUT", "soon")

	cfg := config.Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.Odoo.Timeout)
}
