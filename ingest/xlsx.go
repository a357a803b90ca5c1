package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"crmhygiene/record"
)

// ReadXLSX читает первый лист XLSX-книги в батч записей. Первая строка
// листа считается заголовком, пустые ячейки пропускаются.
func ReadXLSX(r io.Reader) (record.Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	return firstSheetBatch(f)
}

// ReadXLSXFile читает XLSX-файл с диска
func ReadXLSXFile(path string) (record.Batch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return firstSheetBatch(f)
}

func firstSheetBatch(f *excelize.File) (record.Batch, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var batch record.Batch
	for _, row := range rows[1:] {
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
