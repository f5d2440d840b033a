package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Host:   "localhost",
			User:   "test",
			DBName: "test",
		},
		Gmail: GmailConfig{
			ClientID:     "test",
			ClientSecret: "test",
			RefreshToken: "test",
		},
		Retention: RetentionConfig{
			Days: 10,
		},
		Scheduler: SchedulerConfig{
			IntervalMinutes: 60,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())

	invalid := &Config{
		Server: ServerConfig{Port: ""},
	}
	assert.Error(t, invalid.Validate())
}

func TestConfigValidationMissingGmailCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Gmail.RefreshToken = ""
	assert.Error(t, cfg.Validate())
}

func TestConfigValidationIMAPMode(t *testing.T) {
	cfg := validConfig()
	cfg.Gmail = GmailConfig{UseIMAP: true}
	assert.Error(t, cfg.Validate())

	cfg.Gmail.IMAPUser = "user"
	cfg.Gmail.IMAPPassword = "pass"
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidationRetention(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.Days = 0
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	dsn := cfg.GetDSN()
	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, dsn)
}
