package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("NOTIFICATION_FANOUT_CAP", "")
	t.Setenv("ANALYTICS_CACHE_TTL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 1000, cfg.Quiz.FanoutCap)
	assert.Equal(t, 5*time.Minute, cfg.Quiz.AnalyticsCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("NOTIFICATION_WORKERS", "8")
	t.Setenv("ANALYTICS_CACHE_TTL", "30s")
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("CASDOOR_CERTIFICATE", `line1\nline2`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8, cfg.Quiz.NotificationWorkers)
	assert.Equal(t, 30*time.Second, cfg.Quiz.AnalyticsCacheTTL)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "line1\nline2", cfg.Auth.Certificate)
}

func TestEventConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := EventConfig{KafkaBrokers: "a:9092, b:9092,", Enabled: true, Publisher: "mock"}
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.GetKafkaBrokers())

	publisher, err := cfg.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, publisher)

	cfg.Enabled = false
	cfg.Publisher = "kafka"
	publisher, err = cfg.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, publisher)
}
