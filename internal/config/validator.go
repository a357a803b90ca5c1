package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"crmhygiene/dedup"
	"crmhygiene/hygiene"
	"crmhygiene/pipeline"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация пути к сервисной базе
	if c.ServiceDatabasePath == "" {
		errors = append(errors, "service database path is required")
	}

	// Валидация connection pooling
	if c.MaxOpenConns < 1 {
		errors = append(errors, "max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		errors = append(errors, "max idle connections must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errors = append(errors, "max idle connections cannot be greater than max open connections")
	}
	if c.ConnMaxLifetime < time.Second {
		errors = append(errors, "connection max lifetime must be at least 1 second")
	}

	// Валидация уровня логирования
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	// Валидация параметров аудита
	if len(c.RequiredFields) == 0 {
		errors = append(errors, "required fields list cannot be empty")
	}
	if c.DedupKeyField == "" {
		errors = append(errors, "dedup key field is required")
	}
	if c.DedupThreshold <= 0 || c.DedupThreshold > 100 {
		errors = append(errors, fmt.Sprintf("dedup threshold must be in (0, 100], got %g", c.DedupThreshold))
	}
	if c.StaleDays < 1 {
		errors = append(errors, "stale days must be at least 1")
	}

	validPolicies := []string{"capped", "linear"}
	if c.ScoringPolicy != "" {
		valid := false
		for _, policy := range validPolicies {
			if c.ScoringPolicy == policy {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid scoring policy: %s (valid: %s)",
				c.ScoringPolicy, strings.Join(validPolicies, ", ")))
		}
	}

	if c.AlertRecipient == "" {
		errors = append(errors, "alert recipient is required")
	}

	// Валидация лимита запросов
	if c.RateLimitPerSec < 1 {
		errors = append(errors, "rate limit must be at least 1 request per second")
	}

	// Валидация порогов серьезности
	if c.Bands != nil {
		if err := c.Bands.Validate(); err != nil {
			errors = append(errors, fmt.Sprintf("bands config: %v", err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate проверяет корректность порогов серьезности
func (b *BandsConfig) Validate() error {
	var errors []string

	if b.Good < 1 || b.Good > 100 {
		errors = append(errors, "good threshold must be between 1 and 100")
	}
	if b.Warn < 0 || b.Warn > 100 {
		errors = append(errors, "warn threshold must be between 0 and 100")
	}
	if b.Warn >= b.Good {
		errors = append(errors, "warn threshold must be below good threshold")
	}

	if len(errors) > 0 {
		return fmt.Errorf("bands validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// GetDefaults возвращает конфигурацию со значениями по умолчанию
func GetDefaults() *Config {
	return &Config{
		Port:                "9999",
		ServiceDatabasePath: "service.db",
		MaxOpenConns:        10,
		MaxIdleConns:        3,
		ConnMaxLifetime:     5 * time.Minute,
		LogLevel:            "INFO",
		RequiredFields:      append([]string(nil), pipeline.DefaultRequiredFields...),
		DedupKeyField:       "email",
		DedupThreshold:      dedup.DefaultThreshold,
		StaleDays:           hygiene.DefaultStaleDays,
		ScoringPolicy:       "capped",
		AlertRecipient:      pipeline.DefaultAlertRecipient,
		RateLimitPerSec:     20,
		Bands:               &BandsConfig{Good: 80, Warn: 50},
	}
}
