package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crmhygiene/database"
	apperrors "crmhygiene/server/errors"
)

const (
	// Лимит уведомлений в одном ответе по умолчанию
	DefaultNotificationLimit = 50
	// Максимальный лимит уведомлений в одном ответе
	MaxNotificationLimit = 500
)

// NotificationHandler обработчик истории уведомлений
type NotificationHandler struct {
	db *database.ServiceDB
}

// NewNotificationHandler создает новый обработчик уведомлений
func NewNotificationHandler(db *database.ServiceDB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// NotificationListResponse страница истории уведомлений
type NotificationListResponse struct {
	Notifications []database.Notification `json:"notifications"`
	Limit         int                     `json:"limit"`
	Offset        int                     `json:"offset"`
	Unread        int                     `json:"unread"`
}

// HandleListNotifications возвращает историю уведомлений
// @Summary Получить историю уведомлений
// @Description Возвращает страницу уведомлений, отправленных аудитом, начиная с самых свежих
// @Tags notifications
// @Produce json
// @Param limit query int false "Размер страницы" default(50)
// @Param offset query int false "Смещение" default(0)
// @Param unread_only query bool false "Только непрочитанные" default(false)
// @Success 200 {object} NotificationListResponse "Страница уведомлений"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/notifications [get]
func (h *NotificationHandler) HandleListNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultNotificationLimit)))
	if err != nil || limit < 1 {
		SendJSONError(c, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		SendJSONError(c, http.StatusBadRequest, "invalid offset")
		return
	}

	unreadOnly := c.Query("unread_only") == "true"

	notifications, err := h.db.GetNotifications(limit, offset, unreadOnly)
	if err != nil {
		appErr := apperrors.NewInternalError("не удалось получить уведомления", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	unread, err := h.db.CountUnread()
	if err != nil {
		appErr := apperrors.NewInternalError("не удалось посчитать непрочитанные", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	if notifications == nil {
		notifications = []database.Notification{}
	}

	c.JSON(http.StatusOK, NotificationListResponse{
		Notifications: notifications,
		Limit:         limit,
		Offset:        offset,
		Unread:        unread,
	})
}

// HandleMarkNotificationRead помечает уведомление прочитанным
// @Summary Пометить уведомление прочитанным
// @Tags notifications
// @Produce json
// @Param id path int true "ID уведомления"
// @Success 200 {object} map[string]bool "Уведомление помечено"
// @Failure 400 {object} ErrorResponse "Неверный ID"
// @Failure 404 {object} ErrorResponse "Уведомление не найдено"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/notifications/{id}/read [post]
func (h *NotificationHandler) HandleMarkNotificationRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		SendJSONError(c, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.db.MarkNotificationRead(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			SendJSONError(c, http.StatusNotFound, "notification not found")
			return
		}
		appErr := apperrors.NewInternalError("не удалось пометить уведомление", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	c.JSON(http.StatusOK, gin.H{"read": true})
}

// HandleMarkAllNotificationsRead помечает все уведомления прочитанными
// @Summary Пометить все уведомления прочитанными
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]bool "Уведомления помечены"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/notifications/read-all [post]
func (h *NotificationHandler) HandleMarkAllNotificationsRead(c *gin.Context) {
	if err := h.db.MarkAllNotificationsRead(); err != nil {
		appErr := apperrors.NewInternalError("не удалось пометить уведомления", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	c.JSON(http.StatusOK, gin.H{"read": true})
}
