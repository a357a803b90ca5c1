package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"crmhygiene/alert"
	"crmhygiene/database"
	"crmhygiene/internal/config"
	"crmhygiene/server/handlers"
	"crmhygiene/server/middleware"
)

// Server HTTP сервер аудита CRM записей
type Server struct {
	config     *config.Config
	serviceDB  *database.ServiceDB
	log        *slog.Logger
	httpServer *http.Server
	router     *gin.Engine
}

// New создает новый сервер
func New(cfg *config.Config, serviceDB *database.ServiceDB, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		config:    cfg,
		serviceDB: serviceDB,
		log:       log,
	}
	s.router = s.buildRouter()
	return s
}

// Router возвращает настроенный HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	// Режим Gin: release для продакшена, переопределяется через GIN_MODE
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.GzipMiddleware())
	router.Use(middleware.LoggerMiddleware(s.log))
	router.Use(middleware.RecoveryMiddleware(s.log))
	router.Use(middleware.RateLimitMiddleware(s.config.RateLimitPerSec))

	// Алерты аудита уходят в slog и сохраняются в сервисной БД
	var notifier alert.Notifier = alert.NewSlogNotifier(s.log)
	if s.serviceDB != nil {
		notifier = alert.NewStoreNotifier(s.serviceDB, s.log)
	}

	store := &handlers.ResultStore{}
	auditHandler := handlers.NewAuditHandler(s.config, notifier, store, nil, s.log)
	dashboardHandler := handlers.NewDashboardHandler(s.config, store, s.serviceDB)
	notificationHandler := handlers.NewNotificationHandler(s.serviceDB)
	configHandler := handlers.NewConfigHandler(s.config, s.serviceDB)
	healthHandler := handlers.NewHealthHandler(s.serviceDB)

	api := router.Group("/api")
	{
		api.POST("/audit", auditHandler.HandleAudit)
		api.POST("/audit/upload", auditHandler.HandleAuditUpload)
		api.GET("/report", auditHandler.HandleReport)
		api.GET("/dashboard", dashboardHandler.HandleDashboard)

		api.GET("/notifications", notificationHandler.HandleListNotifications)
		api.POST("/notifications/:id/read", notificationHandler.HandleMarkNotificationRead)
		api.POST("/notifications/read-all", notificationHandler.HandleMarkAllNotificationsRead)

		api.GET("/config", configHandler.HandleGetConfig)
		api.PUT("/config", configHandler.HandleUpdateConfig)

		api.GET("/health", healthHandler.HandleHealth)
	}

	handlers.RegisterSwaggerRoutes(router, s.config.Port)

	return router
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // Поддерживаем длинные выгрузки отчетов
		IdleTimeout:  120 * time.Second,
	}

	s.log.Info("HTTP server starting", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
