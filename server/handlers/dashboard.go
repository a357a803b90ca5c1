package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crmhygiene/database"
	"crmhygiene/insights"
	"crmhygiene/internal/config"
)

// DashboardResponse сводка по последнему аудиту
type DashboardResponse struct {
	Score               int                 `json:"score"`
	Band                string              `json:"band"`
	TotalRecords        int                 `json:"total_records"`
	Findings            int                 `json:"findings"`
	Duplicates          int                 `json:"duplicates"`
	Insights            insights.InsightMap `json:"insights"`
	UnreadNotifications int                 `json:"unread_notifications"`
	AuditedAt           string              `json:"audited_at"`
}

// DashboardHandler обработчик сводки для дашборда
type DashboardHandler struct {
	cfg   *config.Config
	store *ResultStore
	db    *database.ServiceDB
}

// NewDashboardHandler создает новый обработчик дашборда
func NewDashboardHandler(cfg *config.Config, store *ResultStore, db *database.ServiceDB) *DashboardHandler {
	return &DashboardHandler{cfg: cfg, store: store, db: db}
}

// HandleDashboard возвращает сводку по последнему аудиту
// @Summary Получить сводку для дашборда
// @Description Возвращает балл гигиены последнего аудита, его полосу серьезности, метрики и число непрочитанных уведомлений
// @Tags dashboard
// @Produce json
// @Success 200 {object} DashboardResponse "Сводка аудита"
// @Failure 404 {object} ErrorResponse "Аудит еще не проводился"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/dashboard [get]
func (h *DashboardHandler) HandleDashboard(c *gin.Context) {
	result, at, ok := h.store.Get()
	if !ok {
		SendJSONError(c, http.StatusNotFound, "no audit has been run yet")
		return
	}

	unread := 0
	if h.db != nil {
		count, err := h.db.CountUnread()
		if err == nil {
			unread = count
		}
	}

	band := ""
	if h.cfg.Bands != nil {
		band = h.cfg.Bands.Band(result.Score)
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Score:               result.Score,
		Band:                band,
		TotalRecords:        len(result.Batch),
		Findings:            len(result.Findings),
		Duplicates:          len(result.Duplicates),
		Insights:            result.Insights,
		UnreadNotifications: unread,
		AuditedAt:           at.Format(time.RFC3339),
	})
}
