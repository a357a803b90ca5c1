package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crmhygiene/database"
)

// HealthHandler обработчик проверки состояния сервиса
type HealthHandler struct {
	db      *database.ServiceDB
	started time.Time
}

// NewHealthHandler создает новый обработчик health check
func NewHealthHandler(db *database.ServiceDB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// HandleHealth возвращает состояние сервиса
// @Summary Проверить состояние сервиса
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Сервис работает"
// @Failure 503 {object} map[string]interface{} "Сервисная БД недоступна"
// @Router /api/health [get]
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	status := http.StatusOK
	overall := "ok"
	dbStatus := "ok"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			overall = "degraded"
			dbStatus = err.Error()
		}
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"database": dbStatus,
		"uptime":   time.Since(h.started).String(),
	})
}
