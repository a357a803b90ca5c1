package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmhygiene/database"
	"crmhygiene/internal/config"
	apperrors "crmhygiene/server/errors"
)

// ConfigHandler обработчик чтения и изменения конфигурации
type ConfigHandler struct {
	cfg *config.Config
	db  *database.ServiceDB
}

// NewConfigHandler создает новый обработчик конфигурации
func NewConfigHandler(cfg *config.Config, db *database.ServiceDB) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, db: db}
}

// HandleGetConfig возвращает текущую конфигурацию
// @Summary Получить текущую конфигурацию
// @Tags config
// @Produce json
// @Success 200 {object} config.Config "Текущая конфигурация"
// @Router /api/config [get]
func (h *ConfigHandler) HandleGetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg)
}

// HandleUpdateConfig обновляет конфигурацию и сохраняет её в сервисную БД
// @Summary Обновить конфигурацию
// @Description Валидирует новую конфигурацию, применяет параметры аудита и сохраняет её в сервисную БД. Порт и путь к БД меняются только после перезапуска
// @Tags config
// @Accept json
// @Produce json
// @Param request body config.Config true "Новая конфигурация"
// @Success 200 {object} config.Config "Применённая конфигурация"
// @Failure 400 {object} ErrorResponse "Невалидная конфигурация"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/config [put]
func (h *ConfigHandler) HandleUpdateConfig(c *gin.Context) {
	var updated config.Config
	if err := c.ShouldBindJSON(&updated); err != nil {
		appErr := apperrors.NewValidationError("неверный формат конфигурации", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	if err := updated.Validate(); err != nil {
		SendJSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	if h.db != nil {
		if err := config.SaveConfig(&updated, h.db); err != nil {
			appErr := apperrors.NewInternalError("не удалось сохранить конфигурацию", err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
			return
		}
	}

	// Применяем параметры аудита на лету, сетевые параметры требуют перезапуска
	h.cfg.RequiredFields = updated.RequiredFields
	h.cfg.DedupKeyField = updated.DedupKeyField
	h.cfg.DedupThreshold = updated.DedupThreshold
	h.cfg.StaleDays = updated.StaleDays
	h.cfg.ScoringPolicy = updated.ScoringPolicy
	h.cfg.AlertRecipient = updated.AlertRecipient
	h.cfg.Bands = updated.Bands

	c.JSON(http.StatusOK, h.cfg)
}
