package app

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SHOP_TIMEZONE", "Asia/Kolkata")
	t.Setenv("WHATSAPP_COUNTRY_CODE", "+91")
	t.Setenv("ALLOWED_ORIGINS", "localhost:3000,shop.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	assert.Equal(t, "91", cfg.WhatsAppCountryCode)
	assert.Equal(t, []string{"localhost:3000", "shop.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("SHOP_TIMEZONE", "Mars/Olympus")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOP_TIMEZONE")
}

func TestValidateResolvesLocation(t *testing.T) {
	cfg := Config{ShopTimezone: "Asia/Kolkata", LogLevel: "info", RateLimitPerMinute: 10, WhatsAppCountryCode: "91"}
	require.NoError(t, cfg.validate())
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())

	var unset *Config
	assert.Equal(t, "UTC", unset.Location().String())
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := Config{ShopTimezone: "UTC", LogLevel: "info", RateLimitPerMinute: 10, WhatsAppCountryCode: "91"}

	bad := base
	bad.LogLevel = "loud"
	assert.Error(t, bad.validate())

	bad = base
	bad.RateLimitPerMinute = 0
	assert.Error(t, bad.validate())

	bad = base
	bad.WhatsAppCountryCode = " + "
	assert.Error(t, bad.validate())
}

func TestNewLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "json", LogLevel: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestInTestModeFollowsEnvironment(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
