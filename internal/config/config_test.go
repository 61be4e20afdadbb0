package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntervals(t *testing.T) {
	assert.Equal(t, []int{5, 10, 15, 30}, ParseIntervals("5,10,15,30"))
	assert.Equal(t, []int{2, 4}, ParseIntervals(" 2, x, -1, 4 ,"))
	assert.Empty(t, ParseIntervals(""))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTO_CALL_INTERVALS", "")
	t.Setenv("MAX_CARDS_PER_PLAYER", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 10, cfg.MaxCardsPerPlayer)
	assert.Equal(t, []int{5, 10, 15, 30}, cfg.AutoCallIntervals)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MAX_CARDS_PER_PLAYER", "4")
	t.Setenv("AUTO_CALL_INTERVALS", "1,2")
	t.Setenv("LOG_JSON", "true")

	cfg := Load()
	assert.Equal(t, 4, cfg.MaxCardsPerPlayer)
	assert.Equal(t, []int{1, 2}, cfg.AutoCallIntervals)
	assert.True(t, cfg.LogJSON)
}
