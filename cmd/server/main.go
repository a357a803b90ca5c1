// @title CRM Hygiene Audit API
// @version 1.0
// @description Сервис аудита гигиены CRM записей: проверка полноты, валидация, нормализация, обогащение, поиск дублей и балл гигиены.

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:9999
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"crmhygiene/database"
	"crmhygiene/internal/config"
	"crmhygiene/server"
)

func main() {
	log.Println("Запуск сервера аудита CRM записей...")

	// Загружаем базовую конфигурацию из env (для пути к сервисной БД)
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	dbConfig := database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	serviceDB, err := database.NewServiceDBWithConfig(cfg.ServiceDatabasePath, dbConfig)
	if err != nil {
		log.Fatalf("Ошибка создания сервисной базы данных: %v", err)
	}
	defer serviceDB.Close()
	log.Printf("Используется сервисная база данных: %s", cfg.ServiceDatabasePath)

	// Перезагружаем конфигурацию из сервисной БД (если есть)
	cfg, err = config.LoadConfig(serviceDB)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации из БД: %v", err)
	}

	// Если конфигурации нет в БД, сохраняем текущую из env
	configJSON, _ := serviceDB.GetAppConfig()
	if configJSON == "" {
		log.Printf("Config not found in DB, saving current config from environment")
		if err := config.SaveConfig(cfg, serviceDB); err != nil {
			log.Printf("Warning: failed to save config to DB: %v", err)
		}
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	srv := server.New(cfg, serviceDB, logger)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	// Ждем сигнала остановки
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}
	log.Println("Сервер остановлен")
}

// newLogger создает slog логгер с уровнем из конфигурации
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
