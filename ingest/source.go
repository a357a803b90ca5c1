package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"crmhygiene/record"
)

// LoadEnrichmentJSON читает источник обогащения из JSON-объекта вида
// {"field": value}. Значения null пропускаются.
func LoadEnrichmentJSON(r io.Reader) (map[string]record.Value, error) {
	var rec record.Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode enrichment source: %w", err)
	}

	source := make(map[string]record.Value, rec.Len())
	for _, field := range rec.Fields() {
		v, _ := rec.Get(field)
		source[field] = v
	}
	return source, nil
}

// LoadEnrichmentJSONFile читает источник обогащения из JSON-файла
func LoadEnrichmentJSONFile(path string) (map[string]record.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return LoadEnrichmentJSON(f)
}

// ParseEnrichmentHTML извлекает источник обогащения из первой таблицы
// HTML-документа. Ожидаются строки из двух ячеек: имя поля и значение.
// Строки заголовка (th) и строки с пустым именем поля пропускаются.
func ParseEnrichmentHTML(r io.Reader) (map[string]record.Value, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in HTML document")
	}

	source := make(map[string]record.Value)
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		field := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		if field == "" || value == "" {
			return
		}
		source[field] = parseCell(value)
	})

	if len(source) == 0 {
		return nil, fmt.Errorf("table contains no field/value rows")
	}
	return source, nil
}
