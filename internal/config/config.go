package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"crmhygiene/database"
	"crmhygiene/dedup"
	"crmhygiene/hygiene"
	"crmhygiene/insights"
	"crmhygiene/pipeline"
)

// Config конфигурация сервера
type Config struct {
	// Сервер
	Port string `json:"port"`

	// Сервисная база данных
	ServiceDatabasePath string `json:"service_database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Логирование
	LogLevel string `json:"log_level"`

	// Аудит
	RequiredFields []string `json:"required_fields"`
	DedupKeyField  string   `json:"dedup_key_field"`
	DedupThreshold float64  `json:"dedup_threshold"`
	StaleDays      int      `json:"stale_days"`
	ScoringPolicy  string   `json:"scoring_policy"`
	AlertRecipient string   `json:"alert_recipient"`

	// Лимит запросов
	RateLimitPerSec int `json:"rate_limit_per_sec"`

	// Пороги серьезности для дашборда
	Bands *BandsConfig `json:"bands"`
}

// BandsConfig пороги интерпретации балла гигиены
type BandsConfig struct {
	Good int `json:"good"`
	Warn int `json:"warn"`
}

// Band возвращает название полосы для балла
func (b *BandsConfig) Band(score int) string {
	switch {
	case score >= b.Good:
		return "good"
	case score >= b.Warn:
		return "warning"
	default:
		return "critical"
	}
}

// LoadConfig загружает конфигурацию из сервисной БД (если serviceDB передан) или из переменных окружения
func LoadConfig(serviceDB ...*database.ServiceDB) (*Config, error) {
	var config *Config

	// Пытаемся загрузить из БД, если передан serviceDB
	if len(serviceDB) > 0 && serviceDB[0] != nil {
		configJSONStr, err := serviceDB[0].GetAppConfig()
		if err == nil && configJSONStr != "" {
			var cfgJSON configJSON
			if err := json.Unmarshal([]byte(configJSONStr), &cfgJSON); err == nil {
				connMaxLifetime, err := time.ParseDuration(cfgJSON.ConnMaxLifetime)
				if err != nil {
					connMaxLifetime = 5 * time.Minute // fallback
				}

				config = &Config{
					Port:                cfgJSON.Port,
					ServiceDatabasePath: cfgJSON.ServiceDatabasePath,
					MaxOpenConns:        cfgJSON.MaxOpenConns,
					MaxIdleConns:        cfgJSON.MaxIdleConns,
					ConnMaxLifetime:     connMaxLifetime,
					LogLevel:            cfgJSON.LogLevel,
					RequiredFields:      cfgJSON.RequiredFields,
					DedupKeyField:       cfgJSON.DedupKeyField,
					DedupThreshold:      cfgJSON.DedupThreshold,
					StaleDays:           cfgJSON.StaleDays,
					ScoringPolicy:       cfgJSON.ScoringPolicy,
					AlertRecipient:      cfgJSON.AlertRecipient,
					RateLimitPerSec:     cfgJSON.RateLimitPerSec,
					Bands:               cfgJSON.Bands,
				}

				log.Printf("Config loaded from service database")
				if err := config.Validate(); err != nil {
					log.Printf("Invalid config from DB, falling back to env: %v", err)
					config = nil
				} else {
					return config, nil
				}
			} else {
				log.Printf("Failed to parse config from DB, falling back to env: %v", err)
			}
		}
	}

	// Fallback на переменные окружения
	config = &Config{
		Port:                getEnv("SERVER_PORT", "9999"),
		ServiceDatabasePath: getEnv("SERVICE_DATABASE_PATH", "service.db"),

		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 3),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		RequiredFields: getEnvList("AUDIT_REQUIRED_FIELDS", pipeline.DefaultRequiredFields),
		DedupKeyField:  getEnv("AUDIT_DEDUP_KEY_FIELD", "email"),
		DedupThreshold: getEnvFloat("AUDIT_DEDUP_THRESHOLD", dedup.DefaultThreshold),
		StaleDays:      getEnvInt("AUDIT_STALE_DAYS", hygiene.DefaultStaleDays),
		ScoringPolicy:  getEnv("AUDIT_SCORING_POLICY", "capped"),
		AlertRecipient: getEnv("AUDIT_ALERT_RECIPIENT", pipeline.DefaultAlertRecipient),

		RateLimitPerSec: getEnvInt("RATE_LIMIT_PER_SEC", 20),

		Bands: &BandsConfig{
			Good: getEnvInt("SCORE_BAND_GOOD", 80),
			Warn: getEnvInt("SCORE_BAND_WARN", 50),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// PipelineConfig строит конфигурацию пайплайна аудита
func (c *Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		RequiredFields: c.RequiredFields,
		DedupKeyField:  c.DedupKeyField,
		DedupThreshold: c.DedupThreshold,
		StaleDays:      c.StaleDays,
		AlertRecipient: c.AlertRecipient,
		ScoringPolicy:  insights.PolicyByName(c.ScoringPolicy),
	}
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList получает переменную окружения как список через запятую
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

// configJSON структура для сериализации конфигурации в JSON
type configJSON struct {
	Port                string       `json:"port"`
	ServiceDatabasePath string       `json:"service_database_path"`
	MaxOpenConns        int          `json:"max_open_conns"`
	MaxIdleConns        int          `json:"max_idle_conns"`
	ConnMaxLifetime     string       `json:"conn_max_lifetime"` // time.Duration как строка
	LogLevel            string       `json:"log_level"`
	RequiredFields      []string     `json:"required_fields"`
	DedupKeyField       string       `json:"dedup_key_field"`
	DedupThreshold      float64      `json:"dedup_threshold"`
	StaleDays           int          `json:"stale_days"`
	ScoringPolicy       string       `json:"scoring_policy"`
	AlertRecipient      string       `json:"alert_recipient"`
	RateLimitPerSec     int          `json:"rate_limit_per_sec"`
	Bands               *BandsConfig `json:"bands"`
}

// SaveConfig сохраняет конфигурацию в сервисную БД
func SaveConfig(cfg *Config, serviceDB *database.ServiceDB) error {
	if serviceDB == nil {
		return fmt.Errorf("serviceDB is nil")
	}

	cfgJSON := &configJSON{
		Port:                cfg.Port,
		ServiceDatabasePath: cfg.ServiceDatabasePath,
		MaxOpenConns:        cfg.MaxOpenConns,
		MaxIdleConns:        cfg.MaxIdleConns,
		ConnMaxLifetime:     cfg.ConnMaxLifetime.String(),
		LogLevel:            cfg.LogLevel,
		RequiredFields:      cfg.RequiredFields,
		DedupKeyField:       cfg.DedupKeyField,
		DedupThreshold:      cfg.DedupThreshold,
		StaleDays:           cfg.StaleDays,
		ScoringPolicy:       cfg.ScoringPolicy,
		AlertRecipient:      cfg.AlertRecipient,
		RateLimitPerSec:     cfg.RateLimitPerSec,
		Bands:               cfg.Bands,
	}

	configJSONBytes, err := json.Marshal(cfgJSON)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := serviceDB.SaveAppConfig(string(configJSONBytes)); err != nil {
		return fmt.Errorf("failed to save config to database: %w", err)
	}

	log.Printf("Config saved to service database")
	return nil
}
