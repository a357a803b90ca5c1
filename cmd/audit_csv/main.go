package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"crmhygiene/alert"
	"crmhygiene/ingest"
	"crmhygiene/insights"
	"crmhygiene/pipeline"
	"crmhygiene/record"
	"crmhygiene/report"
)

func main() {
	var (
		inputPath      = flag.String("input", "", "путь к CSV или XLSX файлу с записями")
		enrichPath     = flag.String("enrich", "", "путь к источнику обогащения: JSON-объект или HTML-таблица (опционально)")
		outputPath     = flag.String("output", "", "путь для файла отчета (по расширению: .json, .csv, .xlsx); пусто — печать в stdout")
		staleDays      = flag.Int("stale-days", 0, "порог устаревания в днях (0 — значение по умолчанию)")
		dedupThreshold = flag.Float64("dedup-threshold", 0, "порог схожести дублей (0 — значение по умолчанию)")
		policyName     = flag.String("policy", "capped", "политика балла: capped или linear")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		log.Fatal("флаг -input обязателен")
	}

	batch, err := readBatch(*inputPath)
	if err != nil {
		log.Fatalf("Не удалось прочитать записи: %v", err)
	}
	if len(batch) == 0 {
		log.Fatal("Файл не содержит записей")
	}

	var enrichment map[string]record.Value
	if *enrichPath != "" {
		enrichment, err = readEnrichment(*enrichPath)
		if err != nil {
			log.Fatalf("Не удалось прочитать источник обогащения: %v", err)
		}
	}

	cfg := pipeline.Config{
		StaleDays:      *staleDays,
		DedupThreshold: *dedupThreshold,
		ScoringPolicy:  insights.PolicyByName(*policyName),
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	p := pipeline.New(cfg, alert.NewSlogNotifier(logger), nil, logger)
	result := p.Run(batch, enrichment)

	exporter := report.NewExporter(result, time.Now)

	if *outputPath == "" {
		if err := exporter.WriteJSON(os.Stdout); err != nil {
			log.Fatalf("Не удалось вывести отчет: %v", err)
		}
		return
	}

	format, err := formatByExtension(*outputPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := exporter.ExportToFile(*outputPath, format); err != nil {
		log.Fatalf("Не удалось записать отчет: %v", err)
	}
	fmt.Printf("Отчет записан: %s (балл гигиены %d)\n", *outputPath, result.Score)
}

// readEnrichment читает источник обогащения из JSON или HTML-таблицы
func readEnrichment(path string) (map[string]record.Value, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ingest.ParseEnrichmentHTML(f)
	default:
		return ingest.LoadEnrichmentJSONFile(path)
	}
}

// readBatch читает батч записей по расширению файла
func readBatch(path string) (record.Batch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ingest.ReadCSVFile(path)
	case ".xlsx":
		return ingest.ReadXLSXFile(path)
	default:
		return nil, fmt.Errorf("unsupported input extension: %s (expected .csv or .xlsx)", filepath.Ext(path))
	}
}

// formatByExtension определяет формат отчета по расширению файла
func formatByExtension(path string) (report.ExportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return report.FormatJSON, nil
	case ".csv":
		return report.FormatCSV, nil
	case ".xlsx":
		return report.FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported output extension: %s (expected .json, .csv or .xlsx)", filepath.Ext(path))
	}
}
