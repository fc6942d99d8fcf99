package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dapurkita/kds-app/kitchen"
)

// Config dibaca dari environment (.env di-load di main).
type Config struct {
	Port    string
	GinMode string

	// Mode client: kalau UpstreamURL terisi, servis jadi klien API pusat.
	// Kosong = mode standalone dengan DB sendiri.
	UpstreamURL string

	DBDriver string // "mysql" atau "sqlite"
	DBDSN    string

	RefreshInterval time.Duration

	// Threshold classifier waiting time (menit)
	WarnAfterMin int
	CritAfterMin int
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// Load -> konfigurasi lengkap dengan default yang masuk akal
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", ""),
		UpstreamURL:     getEnv("KDS_UPSTREAM_URL", ""),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBDSN:           getEnv("DB_DSN", "kds.db"),
		RefreshInterval: time.Duration(getEnvInt("KDS_REFRESH_INTERVAL_SEC", 5)) * time.Second,
		WarnAfterMin:    getEnvInt("KDS_WARN_AFTER_MIN", 15),
		CritAfterMin:    getEnvInt("KDS_CRIT_AFTER_MIN", 30),
	}

	if cfg.WarnAfterMin < 0 || cfg.CritAfterMin < 0 {
		return nil, fmt.Errorf("classifier thresholds must not be negative")
	}
	// Tier harus monoton: critical tidak boleh datang sebelum warning
	if cfg.CritAfterMin < cfg.WarnAfterMin {
		return nil, fmt.Errorf("KDS_CRIT_AFTER_MIN (%d) must be >= KDS_WARN_AFTER_MIN (%d)",
			cfg.CritAfterMin, cfg.WarnAfterMin)
	}
	return cfg, nil
}

// Classifier -> classifier sesuai threshold konfigurasi
func (c *Config) Classifier() kitchen.Classifier {
	return kitchen.Classifier{
		WarnAfterMin: c.WarnAfterMin,
		CritAfterMin: c.CritAfterMin,
	}
}

// InitDB membuka koneksi gorm untuk mode standalone.
func (c *Config) InitDB() (*gorm.DB, error) {
	switch c.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(c.DBDSN), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(c.DBDSN), &gorm.Config{})
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
}
