package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"crmhygiene/alert"
	"crmhygiene/dedup"
	"crmhygiene/insights"
	"crmhygiene/internal/config"
	"crmhygiene/pipeline"
	"crmhygiene/record"
	apperrors "crmhygiene/server/errors"
)

// ResultStore хранит результат последнего аудита для дашборда
type ResultStore struct {
	mu     sync.RWMutex
	result *pipeline.Result
	at     time.Time
}

// Set сохраняет результат аудита
func (s *ResultStore) Set(result *pipeline.Result, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.at = at
}

// Get возвращает последний результат аудита
func (s *ResultStore) Get() (*pipeline.Result, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.at, s.result != nil
}

// AuditOptions переопределения параметров аудита для одного запроса
type AuditOptions struct {
	RequiredFields []string `json:"required_fields,omitempty"`
	DedupKeyField  string   `json:"dedup_key_field,omitempty"`
	DedupThreshold float64  `json:"dedup_threshold,omitempty"`
	StaleDays      int      `json:"stale_days,omitempty"`
	ScoringPolicy  string   `json:"scoring_policy,omitempty"`
}

// AuditRequest тело запроса аудита
type AuditRequest struct {
	Records    record.Batch   `json:"records"`
	Enrichment *record.Record `json:"enrichment,omitempty"`
	Options    *AuditOptions  `json:"options,omitempty"`
}

// AuditResponse результат аудита батча
type AuditResponse struct {
	Score        int                 `json:"score"`
	Band         string              `json:"band"`
	Insights     insights.InsightMap `json:"insights"`
	Findings     []pipeline.Finding  `json:"findings"`
	Alerts       []string            `json:"alerts"`
	Duplicates   []dedup.Pair        `json:"duplicates"`
	Records      record.Batch        `json:"records"`
	TotalRecords int                 `json:"total_records"`
	GeneratedAt  string              `json:"generated_at"`
}

// AuditHandler обработчик запуска аудита
type AuditHandler struct {
	cfg      *config.Config
	notifier alert.Notifier
	store    *ResultStore
	now      func() time.Time
	log      *slog.Logger
}

// NewAuditHandler создает новый обработчик аудита
func NewAuditHandler(cfg *config.Config, notifier alert.Notifier, store *ResultStore, now func() time.Time, log *slog.Logger) *AuditHandler {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &AuditHandler{
		cfg:      cfg,
		notifier: notifier,
		store:    store,
		now:      now,
		log:      log,
	}
}

// pipelineConfig строит конфигурацию пайплайна с учетом переопределений запроса
func (h *AuditHandler) pipelineConfig(opts *AuditOptions) pipeline.Config {
	cfg := h.cfg.PipelineConfig()
	if opts == nil {
		return cfg
	}
	if len(opts.RequiredFields) > 0 {
		cfg.RequiredFields = opts.RequiredFields
	}
	if opts.DedupKeyField != "" {
		cfg.DedupKeyField = opts.DedupKeyField
	}
	if opts.DedupThreshold > 0 {
		cfg.DedupThreshold = opts.DedupThreshold
	}
	if opts.StaleDays > 0 {
		cfg.StaleDays = opts.StaleDays
	}
	if opts.ScoringPolicy != "" {
		cfg.ScoringPolicy = insights.PolicyByName(opts.ScoringPolicy)
	}
	return cfg
}

// runAudit прогоняет батч через пайплайн и сохраняет результат
func (h *AuditHandler) runAudit(batch record.Batch, enrichment map[string]record.Value, opts *AuditOptions) *pipeline.Result {
	p := pipeline.New(h.pipelineConfig(opts), h.notifier, h.now, h.log)
	result := p.Run(batch, enrichment)
	h.store.Set(result, h.now())
	return result
}

// auditResponse формирует ответ аудита
func (h *AuditHandler) auditResponse(result *pipeline.Result) AuditResponse {
	alerts := make([]string, 0, len(result.Findings))
	for _, f := range result.Findings {
		alerts = append(alerts, f.Message())
	}

	band := ""
	if h.cfg.Bands != nil {
		band = h.cfg.Bands.Band(result.Score)
	}

	return AuditResponse{
		Score:        result.Score,
		Band:         band,
		Insights:     result.Insights,
		Findings:     result.Findings,
		Alerts:       alerts,
		Duplicates:   result.Duplicates,
		Records:      result.Batch,
		TotalRecords: len(result.Batch),
		GeneratedAt:  h.now().Format(time.RFC3339),
	}
}

// HandleAudit запускает аудит батча записей
// @Summary Провести аудит батча CRM записей
// @Description Проверяет записи на полноту, валидность, устаревание и дубли, нормализует и обогащает их и возвращает метрики с баллом гигиены
// @Tags audit
// @Accept json
// @Produce json
// @Param request body AuditRequest true "Батч записей с опциональным источником обогащения"
// @Success 200 {object} AuditResponse "Результат аудита"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/audit [post]
func (h *AuditHandler) HandleAudit(c *gin.Context) {
	var req AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("неверный формат тела запроса", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	if len(req.Records) == 0 {
		SendJSONError(c, http.StatusBadRequest, "records is required")
		return
	}

	var enrichment map[string]record.Value
	if req.Enrichment != nil {
		enrichment = make(map[string]record.Value, req.Enrichment.Len())
		for _, field := range req.Enrichment.Fields() {
			v, _ := req.Enrichment.Get(field)
			enrichment[field] = v
		}
	}

	result := h.runAudit(req.Records, enrichment, req.Options)
	c.JSON(http.StatusOK, h.auditResponse(result))
}
