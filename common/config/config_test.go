package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "care")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", SSLMode: "disable", MaxConns: 4}
	cfg.LoadFromEnv("DB")

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "care", cfg.Database)
	assert.Equal(t, 4, cfg.MaxConns, "invalid numbers keep the previous value")
	assert.Equal(t, "host=db.internal port=6543 user=postgres password= dbname=care sslmode=disable", cfg.GetDSN())
}

func TestMQTTConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_TOPIC", "care-record/saved")

	var cfg MQTTConfig
	cfg.LoadFromEnv("MQTT")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "care-record/saved", cfg.Topic)
}
