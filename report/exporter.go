package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"crmhygiene/dedup"
	"crmhygiene/insights"
	"crmhygiene/pipeline"
)

// ExportFormat формат экспорта отчета
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

// Exporter формирует отчет аудита по результату пайплайна
type Exporter struct {
	result *pipeline.Result
	now    func() time.Time
}

// NewExporter создает новый экспортер. now == nil означает системные часы.
func NewExporter(result *pipeline.Result, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{result: result, now: now}
}

// Export пишет отчет в заданном формате
func (e *Exporter) Export(w io.Writer, format ExportFormat) error {
	switch format {
	case FormatJSON:
		return e.WriteJSON(w)
	case FormatCSV:
		return e.WriteCSV(w)
	case FormatExcel:
		return e.WriteExcel(w)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportToFile пишет отчет в файл
func (e *Exporter) ExportToFile(filename string, format ExportFormat) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return e.Export(file, format)
}

type jsonReport struct {
	GeneratedAt  string              `json:"generated_at"`
	TotalRecords int                 `json:"total_records"`
	Score        int                 `json:"score"`
	Insights     insights.InsightMap `json:"insights"`
	Findings     []string            `json:"findings"`
	Duplicates   []dedup.Pair        `json:"duplicates"`
}

// WriteJSON экспортирует отчет в JSON
func (e *Exporter) WriteJSON(w io.Writer) error {
	findings := make([]string, 0, len(e.result.Findings))
	for _, f := range e.result.Findings {
		findings = append(findings, f.Message())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(jsonReport{
		GeneratedAt:  e.now().Format(time.RFC3339),
		TotalRecords: len(e.result.Batch),
		Score:        e.result.Score,
		Insights:     e.result.Insights,
		Findings:     findings,
		Duplicates:   e.result.Duplicates,
	})
}

// WriteCSV экспортирует метрики аудита в CSV
func (e *Exporter) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Count"}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, metric := range insights.MetricOrder {
		row := []string{metric, strconv.Itoa(e.result.Insights[metric])}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write metric row: %w", err)
		}
	}

	if err := writer.Write([]string{"Hygiene Score", strconv.Itoa(e.result.Score)}); err != nil {
		return fmt.Errorf("failed to write score row: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

// WriteExcel экспортирует отчет в Excel: лист метрик и лист находок
func (e *Exporter) WriteExcel(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Hygiene Audit"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	// Стиль заголовков
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Metric", "Count"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 2
	for _, metric := range insights.MetricOrder {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), metric)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.result.Insights[metric])
		row++
	}
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Hygiene Score")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.result.Score)

	f.SetColWidth(sheetName, "A", "A", 32)
	f.SetColWidth(sheetName, "B", "B", 12)

	if err := e.writeFindingsSheet(f, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (e *Exporter) writeFindingsSheet(f *excelize.File, headerStyle int) error {
	sheetName := "Findings"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create findings sheet: %w", err)
	}

	headers := []string{"Record", "Type", "Message"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, finding := range e.result.Findings {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), finding.RecordIndex)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), string(finding.Kind))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), finding.Message())
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 60)
	return nil
}
