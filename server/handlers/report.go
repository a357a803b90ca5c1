package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crmhygiene/report"
)

// contentType и имя файла для каждого формата отчета
var reportFormats = map[report.ExportFormat]struct {
	contentType string
	filename    string
}{
	report.FormatJSON:  {"application/json; charset=utf-8", "hygiene_report.json"},
	report.FormatCSV:   {"text/csv; charset=utf-8", "hygiene_report.csv"},
	report.FormatExcel: {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "hygiene_report.xlsx"},
}

// HandleReport экспортирует отчет по последнему аудиту
// @Summary Экспортировать отчет аудита
// @Description Выгружает отчет по последнему проведенному аудиту в формате json, csv или excel
// @Tags report
// @Produce json
// @Param format query string false "Формат отчета: json, csv или excel" default(json)
// @Success 200 {file} file "Файл отчета"
// @Failure 400 {object} ErrorResponse "Неверный формат"
// @Failure 404 {object} ErrorResponse "Аудит еще не проводился"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/report [get]
func (h *AuditHandler) HandleReport(c *gin.Context) {
	format := report.ExportFormat(c.DefaultQuery("format", string(report.FormatJSON)))
	meta, ok := reportFormats[format]
	if !ok {
		SendJSONError(c, http.StatusBadRequest, fmt.Sprintf("unsupported report format: %s", format))
		return
	}

	result, at, ok := h.store.Get()
	if !ok {
		SendJSONError(c, http.StatusNotFound, "no audit has been run yet")
		return
	}

	exporter := report.NewExporter(result, func() time.Time { return at })

	c.Header("Content-Type", meta.contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.filename))
	c.Status(http.StatusOK)

	if err := exporter.Export(c.Writer, format); err != nil {
		h.log.Error("report export failed", "format", format, "error", err)
	}
}
