// Package ingest реализует границу ингестии: чтение табличных источников
// (CSV, XLSX, JSON) в батч записей и загрузку источника обогащения.
// Имена полей берутся из заголовка и не проверяются на схему.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"crmhygiene/record"
)

// ReadCSV читает CSV с заголовком в батч записей. Пустая ячейка означает
// отсутствие значения, числовые ячейки распознаются, остальное остается
// строками.
func ReadCSV(r io.Reader) (record.Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var batch record.Batch
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(batch)+2, err)
		}

		rec := record.New()
		for i, field := range header {
			if field == "" || i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			rec.Set(field, parseCell(cell))
		}
		batch = append(batch, rec)
	}

	return batch, nil
}

// ReadCSVFile читает CSV-файл. Если содержимое не является корректным
// UTF-8, оно декодируется из Windows-1251: выгрузки CRM нередко приходят
// в этой кодировке.
func ReadCSVFile(path string) (record.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s as Windows-1251: %w", path, err)
		}
		data = decoded
	}

	return ReadCSV(bytes.NewReader(data))
}

// parseCell распознает тип значения ячейки: булево, число или строка
func parseCell(cell string) record.Value {
	switch cell {
	case "true", "TRUE", "True":
		return record.Bool(true)
	case "false", "FALSE", "False":
		return record.Bool(false)
	}
	if numericCell(cell) {
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return record.Number(f)
		}
	}
	return record.String(cell)
}

// numericCell проверяет, что значение выглядит как число: телефоны с
// ведущим «+» и строки вида Inf/NaN числами не считаются
func numericCell(cell string) bool {
	if cell == "" || cell[0] == '+' {
		return false
	}
	for i := 0; i < len(cell); i++ {
		c := cell[i]
		if (c < '0' || c > '9') && c != '-' && c != '.' && c != 'e' && c != 'E' {
			return false
		}
	}
	return true
}
